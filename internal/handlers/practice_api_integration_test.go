package handlers_test

import (
	"net/http"
	"testing"

	"spellbee/internal/model"
	"spellbee/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeAPI_FullRun(t *testing.T) {
	server := newTestServer(t, false)
	user := uniqueUser("full")
	h := userHeader(user)

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var state model.PracticeStateResponse
	decodeJSON(t, body, &state)
	require.Equal(t, "awaiting_guess", state.State)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, len(testWords), state.Total)

	for i := 0; i < len(testWords); i++ {
		word := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
			httpResponseExpectations{ExpectedCode: http.StatusOK}))
		require.Contains(t, testWords, word)

		// 音声は何度取得しても同じ単語
		again := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
			httpResponseExpectations{ExpectedCode: http.StatusOK}))
		assert.Equal(t, word, again)

		body = sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: word}, Headers: h},
			httpResponseExpectations{ExpectedCode: http.StatusOK})
		state = model.PracticeStateResponse{}
		decodeJSON(t, body, &state)
		require.NotNil(t, state.Result)
		assert.True(t, state.Result.Correct)
		assert.Equal(t, 1, state.Result.AttemptCount)
		assert.Equal(t, model.ClassPerfect, state.Result.Classification)
	}

	assert.Equal(t, "finished", state.State)
	assert.Contains(t, state.Message, service.MsgFinished)

	// 完了後の回答は受け付けない
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: "rhythm"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NO_ACTIVE_SESSION"})

	// すべて練習済みなので new は練習する単語がない
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NOTHING_TO_PRACTICE"})

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/progress", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var summary model.ProgressSummaryResponse
	decodeJSON(t, body, &summary)
	assert.Equal(t, len(testWords), summary.TotalWords)
	assert.Equal(t, len(testWords), summary.Completed)
	assert.Equal(t, len(testWords), summary.Perfect)
	assert.Len(t, summary.Results, len(testWords))
}

func TestPracticeAPI_RetryRevealAndWrongWords(t *testing.T) {
	server := newTestServer(t, false)
	h := userHeader(uniqueUser("reveal"))

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "wrong"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NOTHING_TO_PRACTICE"})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	word := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: "wrong"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var state model.PracticeStateResponse
	decodeJSON(t, body, &state)
	assert.Equal(t, service.MsgRetry, state.Message)
	assert.Nil(t, state.Result)
	assert.Equal(t, 1, state.Attempts)
	assert.Equal(t, 1, state.Position)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: "still wrong"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	state = model.PracticeStateResponse{}
	decodeJSON(t, body, &state)
	require.NotNil(t, state.Result)
	assert.False(t, state.Result.Correct)
	assert.Equal(t, word, state.Result.Word)
	assert.Equal(t, service.MsgRevealPrefix+word, state.Message)
	assert.Equal(t, 2, state.Position)

	// 中断して wrong モードへ
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/quit", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "wrong"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	state = model.PracticeStateResponse{}
	decodeJSON(t, body, &state)
	assert.Equal(t, 1, state.Total)

	again := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))
	assert.Equal(t, word, again)
}

func TestPracticeAPI_QuitAndResume(t *testing.T) {
	server := newTestServer(t, false)
	h := userHeader(uniqueUser("resume"))

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/resume", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var offer model.ResumeOfferResponse
	decodeJSON(t, body, &offer)
	assert.False(t, offer.Available)

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/resume", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusNotFound, ExpectedErrorCode: "NO_SAVED_SESSION"})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/quit", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NO_ACTIVE_SESSION"})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	first := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: first}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	second := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/quit", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var state model.PracticeStateResponse
	decodeJSON(t, body, &state)
	assert.Equal(t, "idle", state.State)
	assert.Equal(t, service.MsgQuit, state.Message)

	// Idle では音声も出ない
	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NO_ACTIVE_SESSION"})

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/resume", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	offer = model.ResumeOfferResponse{}
	decodeJSON(t, body, &offer)
	assert.True(t, offer.Available)
	assert.Equal(t, 2, offer.Position)
	assert.Equal(t, len(testWords), offer.Total)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/resume", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	state = model.PracticeStateResponse{}
	decodeJSON(t, body, &state)
	assert.Equal(t, "awaiting_guess", state.State)
	assert.Equal(t, 2, state.Position)
	assert.Zero(t, state.Attempts)

	resumed := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))
	assert.Equal(t, second, resumed)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	state = model.PracticeStateResponse{}
	decodeJSON(t, body, &state)
	assert.Equal(t, 2, state.Position)
}

func TestPracticeAPI_ResetAndValidation(t *testing.T) {
	server := newTestServer(t, false)
	h := userHeader(uniqueUser("reset"))

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "sometimes"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: "VALIDATION_ERROR"})
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: `{"mode":`, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: "INVALID_REQUEST_BODY"})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	word := string(sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/audio", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK}))
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: word}, Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/progress", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusNoContent})

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/progress", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var summary model.ProgressSummaryResponse
	decodeJSON(t, body, &summary)
	assert.Zero(t, summary.Completed)
	assert.Empty(t, summary.Results)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice/resume", Headers: h},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var offer model.ResumeOfferResponse
	decodeJSON(t, body, &offer)
	assert.False(t, offer.Available)
}

func TestPracticeAPI_UsersAreIsolated(t *testing.T) {
	server := newTestServer(t, false)
	alice := userHeader(uniqueUser("alice"))
	bob := userHeader(uniqueUser("bob"))

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start", Body: model.StartPracticeRequest{Mode: "new"}, Headers: alice},
		httpResponseExpectations{ExpectedCode: http.StatusOK})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/guess", Body: model.GuessRequest{Guess: "rhythm"}, Headers: bob},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "NO_ACTIVE_SESSION"})
}

func TestRouter_HealthAndAuth(t *testing.T) {
	server := newTestServer(t, false)

	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/health"},
		httpResponseExpectations{ExpectedCode: http.StatusOK})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/practice"},
		httpResponseExpectations{ExpectedCode: http.StatusUnauthorized, ExpectedErrorCode: "UNAUTHORIZED"})
}

func TestAuthAPI_JWTFlow(t *testing.T) {
	server := newTestServer(t, true)
	username := uniqueUser("jwt")

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/register",
		Body: model.RegisterRequest{Username: username, Password: "secret", ConfirmPassword: "secret"}},
		httpResponseExpectations{ExpectedCode: http.StatusCreated})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/register",
		Body: model.RegisterRequest{Username: username, Password: "other", ConfirmPassword: "other"}},
		httpResponseExpectations{ExpectedCode: http.StatusConflict, ExpectedErrorCode: "DUPLICATE_USER"})

	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/login",
		Body: model.LoginRequest{Username: username, Password: "wrong"}},
		httpResponseExpectations{ExpectedCode: http.StatusUnauthorized, ExpectedErrorCode: "AUTHENTICATION_FAILED"})

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/login",
		Body: model.LoginRequest{Username: username, Password: "secret"}},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var login model.LoginResponse
	decodeJSON(t, body, &login)
	require.NotEmpty(t, login.AccessToken)

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me", Headers: bearer(login.AccessToken)},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var me model.UserResponse
	decodeJSON(t, body, &me)
	assert.Equal(t, username, me.UserID)
	assert.False(t, me.Guest)

	// 認証有効時は X-User-ID を信用しない
	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me", Headers: userHeader(username)},
		httpResponseExpectations{ExpectedCode: http.StatusUnauthorized})
	sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me", Headers: bearer("not-a-token")},
		httpResponseExpectations{ExpectedCode: http.StatusUnauthorized})
}

func TestAuthAPI_GuestFlow(t *testing.T) {
	server := newTestServer(t, true)

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/auth/guest"},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var login model.LoginResponse
	decodeJSON(t, body, &login)
	assert.True(t, login.Guest)
	assert.True(t, model.IsGuestID(login.UserID))

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/me", Headers: bearer(login.AccessToken)},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
	var me model.UserResponse
	decodeJSON(t, body, &me)
	assert.Equal(t, login.UserID, me.UserID)
	assert.True(t, me.Guest)

	// ゲストも練習できる
	sendRequest(t, server, httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/practice/start",
		Body: model.StartPracticeRequest{Mode: "new"}, Headers: bearer(login.AccessToken)},
		httpResponseExpectations{ExpectedCode: http.StatusOK})
}
