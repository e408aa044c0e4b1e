package loan

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/httpx"
	"libraryapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(httpx.ContextWithPrincipal(r.Context(), httpx.Principal{UserID: userID}))
}

func newHandler() (*HTTPHandler, *memoryStore) {
	store := newMemoryStore()
	store.addUser(1, "a@example.com", 1)
	store.addUser(2, "b@example.com", 5)
	store.addBook(10, 1)
	store.addBook(11, 1)
	engine, _ := newEngine(store)
	return NewHTTPHandler(engine), store
}

func borrowReq(userID int64, bookID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/v1/books/"+bookID+"/borrow", nil)
	r.SetPathValue("id", bookID)
	return asUser(r, userID)
}

func TestHTTPHandler_Borrow(t *testing.T) {
	handler, _ := newHandler()

	w := httptest.NewRecorder()
	handler.Borrow(w, borrowReq(1, "10"))
	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusCreated, resp.Code)
	data := resp.Body["data"].(map[string]any)
	assert.Equal(t, "2024-06-15", data["borrow_date"])
	assert.Nil(t, data["return_date"])
	assert.Contains(t, data, "return_date")

	tests := []struct {
		name   string
		userID int64
		bookID string
		status int
		code   string
	}{
		{name: "limit exceeded", userID: 1, bookID: "11", status: http.StatusBadRequest, code: "BORROW_LIMIT_EXCEEDED"},
		{name: "no copies", userID: 2, bookID: "10", status: http.StatusBadRequest, code: "NO_COPIES_AVAILABLE"},
		{name: "unknown book", userID: 2, bookID: "99", status: http.StatusNotFound, code: "BOOK_NOT_FOUND"},
		{name: "unknown user", userID: 77, bookID: "11", status: http.StatusNotFound, code: "USER_NOT_FOUND"},
		{name: "invalid id", userID: 2, bookID: "abc", status: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Borrow(w, borrowReq(tt.userID, tt.bookID))
			resp := testutil.RecordHTTPResponse(w)
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.code, resp.ErrorCode())
		})
	}
}

func TestHTTPHandler_Return(t *testing.T) {
	handler, _ := newHandler()

	w := httptest.NewRecorder()
	handler.Borrow(w, borrowReq(2, "10"))
	require.Equal(t, http.StatusCreated, w.Code)

	returnReq := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/v1/books/10/return", nil)
		r.SetPathValue("id", "10")
		return asUser(r, 2)
	}

	w = httptest.NewRecorder()
	handler.Return(w, returnReq())
	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "2024-06-15", resp.Body["data"].(map[string]any)["return_date"])

	w = httptest.NewRecorder()
	handler.Return(w, returnReq())
	resp = testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NO_ACTIVE_BORROWING", resp.ErrorCode())
}

func TestHTTPHandler_Availability(t *testing.T) {
	handler, _ := newHandler()

	r := httptest.NewRequest(http.MethodGet, "/v1/books/10/availability", nil)
	r.SetPathValue("id", "10")
	w := httptest.NewRecorder()
	handler.Availability(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available_copies":1`)
}

func TestHTTPHandler_MyDebtsAndHistory(t *testing.T) {
	handler, _ := newHandler()

	w := httptest.NewRecorder()
	handler.Borrow(w, borrowReq(2, "11"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.MyDebts(w, asUser(httptest.NewRequest(http.MethodGet, "/v1/me/debts", nil), 2))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":11`)

	w = httptest.NewRecorder()
	handler.MyHistory(w, asUser(httptest.NewRequest(http.MethodGet, "/v1/me/history", nil), 2))
	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Body["data"], 1)

	r := httptest.NewRequest(http.MethodGet, "/v1/users/1/history", nil)
	r.SetPathValue("id", "1")
	w = httptest.NewRecorder()
	handler.UserHistory(w, r)
	resp = testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Body["data"])
}

func TestHTTPHandler_Debtors(t *testing.T) {
	handler, _ := newHandler()

	for _, uid := range []int64{2, 1} {
		w := httptest.NewRecorder()
		handler.Borrow(w, borrowReq(uid, map[int64]string{1: "11", 2: "10"}[uid]))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httptest.NewRecorder()
	handler.Debtors(w, httptest.NewRequest(http.MethodGet, "/v1/debtors?sort_by=email&sort_order=desc&limit=1", nil))
	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "b@example.com", data[0].(map[string]any)["email"])
	assert.NotContains(t, w.Body.String(), "password")
}
