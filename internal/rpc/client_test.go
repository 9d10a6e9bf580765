package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCallDecodesReply(t *testing.T) {
	var gotReq Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		writeJSON(w, http.StatusOK, OK("hello"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	var reply StatusReply
	require.NoError(t, client.Call(context.Background(), "get_books", nil, &reply))

	assert.Equal(t, "get_books", gotReq.Op)
	assert.Equal(t, StatusSuccess, reply.Status)
	assert.Equal(t, "hello", reply.Message)
}

func TestClientCallFlagSendsFlagObject(t *testing.T) {
	var gotReq Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		writeJSON(w, http.StatusOK, []map[string]bool{{"sign_in": true}})
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	var reply []map[string]bool
	require.NoError(t, client.CallFlag(context.Background(), "sign_in", map[string]string{"username": "u"}, &reply))

	assert.Equal(t, "sign_in", gotReq.Flag)
	assert.Empty(t, gotReq.Op)
	require.Len(t, reply, 1)
	assert.True(t, reply[0]["sign_in"])
}

func TestClientRetriesServerErrorsWithSameIdempotencyKey(t *testing.T) {
	var keys []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get(IdempotencyKeyHeader))
		if len(keys) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, OK("recovered"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, WithRetries(2))
	var reply StatusReply
	require.NoError(t, client.Call(context.Background(), "borrow_book", 2, &reply))

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, "recovered", reply.Message)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, WithRetries(3))
	err := client.Call(context.Background(), "borrow_book", 2, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, WithRetries(1))
	err := client.Call(context.Background(), "borrow_book", 2, nil)

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "after 1 retries")
}

func TestClientTimesOutInsteadOfBlocking(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, OK("too late"))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, WithTimeout(30*time.Millisecond), WithRetries(0))

	start := time.Now()
	err := client.Call(context.Background(), "get_books", nil, nil)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestClientHonorsContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(ts.URL, WithRetries(5))
	err := client.Call(ctx, "get_books", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
