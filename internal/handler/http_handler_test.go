package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/service"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/jwt"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/middleware"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/response"
)

type stubRooms struct {
	service.RoomService
	err      error
	room     *domain.Room
	callerID string
	memberID string
}

func (s *stubRooms) ListRooms(_ context.Context, callerID string) ([]domain.Room, error) {
	s.callerID = callerID
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Room{*s.room}, nil
}

func (s *stubRooms) GetRoom(context.Context, string) (*domain.Room, error) {
	return s.room, s.err
}

func (s *stubRooms) CreateRoom(_ context.Context, callerID string, req *domain.RoomPayload) (*domain.Room, error) {
	s.callerID = callerID
	return &domain.Room{ID: "r1", Title: req.Title, OwnerID: callerID, Members: []string{callerID}}, s.err
}

func (s *stubRooms) AddMember(_ context.Context, callerID, _ string, memberID string) (*domain.Room, error) {
	s.callerID = callerID
	s.memberID = memberID
	return s.room, s.err
}

func (s *stubRooms) DeleteRoom(_ context.Context, callerID, _ string) error {
	s.callerID = callerID
	return s.err
}

type stubMessages struct {
	service.MessageService
	err   error
	index int
}

func (s *stubMessages) SendMessage(_ context.Context, callerID string, req *domain.SendMessageRequest) (*domain.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Message{ID: "m1", Message: req.Message, RoomID: req.RoomID, SenderID: callerID}, nil
}

func (s *stubMessages) DeleteMessage(context.Context, string, string) error {
	return s.err
}

func (s *stubMessages) DeleteMessageAt(_ context.Context, _, _ string, index int) error {
	s.index = index
	return s.err
}

type testServer struct {
	engine *gin.Engine
	tokens *jwt.Manager
}

func newTestServer(t *testing.T, rooms service.RoomService, messages service.MessageService) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := jwt.NewManager("test-secret", "test", time.Minute)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(rooms, messages, middleware.NewAuthMiddleware(tokens)).RegisterRoutes(r)
	return &testServer{engine: r, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.tokens.GenerateAccessToken(userID, userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, &stubRooms{}, &stubMessages{})

	w, resp := srv.do(t, http.MethodGet, "/api/v1/rooms", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, response.CodeUnauthorized, resp.Error.Code)
}

func TestGetRoomIsPublic(t *testing.T) {
	rooms := &stubRooms{room: &domain.Room{ID: "r1", Title: "general"}}
	srv := newTestServer(t, rooms, &stubMessages{})

	w, resp := srv.do(t, http.MethodGet, "/api/v1/rooms/r1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestCreateRoomUsesCaller(t *testing.T) {
	rooms := &stubRooms{}
	srv := newTestServer(t, rooms, &stubMessages{})

	w, resp := srv.do(t, http.MethodPost, "/api/v1/rooms", "alice", `{"title":"general"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", rooms.callerID)
}

func TestAddMemberValidatesBody(t *testing.T) {
	rooms := &stubRooms{room: &domain.Room{ID: "r1"}}
	srv := newTestServer(t, rooms, &stubMessages{})

	w, resp := srv.do(t, http.MethodPost, "/api/v1/rooms/r1/members", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeBadRequest, resp.Error.Code)

	w, _ = srv.do(t, http.MethodPost, "/api/v1/rooms/r1/members", "alice", `{"member_id":"bob"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", rooms.memberID)
}

func TestDeleteRoomConfirmation(t *testing.T) {
	srv := newTestServer(t, &stubRooms{}, &stubMessages{})

	w, resp := srv.do(t, http.MethodDelete, "/api/v1/rooms/r1", "alice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, domain.MsgRoomDeleted, data["message"])
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", service.ErrRoomNotFound, http.StatusNotFound, response.CodeNotFound},
		{"not owner", service.ErrNotRoomOwner, http.StatusForbidden, response.CodeForbidden},
		{"not member", service.ErrNotRoomMember, http.StatusForbidden, response.CodeForbidden},
		{"not sender", service.ErrNotMessageSender, http.StatusForbidden, response.CodeForbidden},
		{"out of range", service.ErrMessageIndexOutOfRange, http.StatusBadRequest, response.CodeOutOfRange},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, response.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &stubRooms{}, &stubMessages{err: tc.err})

			w, resp := srv.do(t, http.MethodDelete, "/api/v1/rooms/r1/messages/0", "alice", "")
			assert.Equal(t, tc.status, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error.Message, "disk on fire")
			} else {
				assert.Equal(t, tc.err.Error(), resp.Error.Message)
			}
		})
	}
}

func TestDeleteMessageAtParsesIndex(t *testing.T) {
	messages := &stubMessages{}
	srv := newTestServer(t, &stubRooms{}, messages)

	w, _ := srv.do(t, http.MethodDelete, "/api/v1/rooms/r1/messages/abc", "alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := srv.do(t, http.MethodDelete, "/api/v1/rooms/r1/messages/2", "alice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, messages.index)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, domain.MsgMessageDeleted, data["message"])
}

func TestSendMessage(t *testing.T) {
	srv := newTestServer(t, &stubRooms{}, &stubMessages{})

	w, _ := srv.do(t, http.MethodPost, "/api/v1/messages", "bob", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := srv.do(t, http.MethodPost, "/api/v1/messages", "bob", `{"message":"hi","room_id":"r1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "bob", data["sender_id"])
	assert.Equal(t, "r1", data["room_id"])
}
