package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/pressrun/engine"
	"github.com/pevans/pressrun/queue"
)

func lineItems(payloads ...string) []queue.Item {
	items := make([]queue.Item, len(payloads))
	for i, payload := range payloads {
		items[i] = queue.Item{Position: i, Payload: payload, Status: queue.StatusPending}
	}
	return items
}

// TestSubmit_Accepted verifies request shape and quota extraction
func TestSubmit_Accepted(t *testing.T) {
	var gotBody, gotSite, gotToken, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotSite = r.URL.Query().Get("site")
		gotToken = r.URL.Query().Get("token")
		gotContentType = r.Header.Get("Content-Type")
		fmt.Fprint(w, `{"success": 2, "remain": 98}`)
	}))
	defer server.Close()

	sink := NewSink(server.URL, "blog.example", "sekrit")
	out, err := sink.Submit(context.Background(), lineItems("http://blog.example/a", "http://blog.example/b"))
	require.NoError(t, err)

	assert.Equal(t, engine.OutcomeAccepted, out.Kind)
	assert.Equal(t, 98, out.Quota)
	assert.Equal(t, "http://blog.example/a\nhttp://blog.example/b\n", gotBody)
	assert.Equal(t, "blog.example", gotSite)
	assert.Equal(t, "sekrit", gotToken)
	assert.Equal(t, "text/plain", gotContentType)
}

// TestSubmit_QuotaZero verifies an accepted batch can still report an
// exhausted quota
func TestSubmit_QuotaZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": 1, "remain": 0}`)
	}))
	defer server.Close()

	sink := NewSink(server.URL, "s", "t")
	out, err := sink.Submit(context.Background(), lineItems("u"))
	require.NoError(t, err)

	assert.Equal(t, engine.OutcomeAccepted, out.Kind)
	assert.Equal(t, 0, out.Quota)
}

// TestSubmit_NonSuccessStatus verifies non-2xx responses are rejections
// carrying the endpoint's message
func TestSubmit_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "token is not valid"}`)
	}))
	defer server.Close()

	sink := NewSink(server.URL, "s", "t")
	out, err := sink.Submit(context.Background(), lineItems("u"))
	require.NoError(t, err)

	assert.Equal(t, engine.OutcomeRejected, out.Kind)
	assert.Contains(t, out.Reason, "401")
	assert.Contains(t, out.Reason, "token is not valid")
}

// TestSubmit_UnparsableBody verifies a 2xx with garbage body is a rejection
func TestSubmit_UnparsableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	sink := NewSink(server.URL, "s", "t")
	out, err := sink.Submit(context.Background(), lineItems("u"))
	require.NoError(t, err)

	assert.Equal(t, engine.OutcomeRejected, out.Kind)
	assert.Contains(t, out.Reason, "unparsable")
}

// TestSubmit_TransportError verifies unreachable endpoints are rejections,
// not hard errors
func TestSubmit_TransportError(t *testing.T) {
	sink := NewSink("http://127.0.0.1:0", "s", "t")
	out, err := sink.Submit(context.Background(), lineItems("u"))
	require.NoError(t, err)

	assert.Equal(t, engine.OutcomeRejected, out.Kind)
	assert.Contains(t, out.Reason, "push request failed")
}

// TestPushRun_QuotaAndServerError runs the full engine over a real line
// store: 25 URLs, batch size 10, batches 1-2 accepted (remain 5 after the
// 2nd), batch 3 gets HTTP 500. The file must end with the last 5 URLs and
// the run must terminate in a sink error naming batch 3's failure.
func TestPushRun_QuotaAndServerError(t *testing.T) {
	var urls []string
	for i := 1; i <= 25; i++ {
		urls = append(urls, fmt.Sprintf("http://blog.example/p/%02d", i))
	}

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(urls, "\n")+"\n"), 0644))

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			fmt.Fprint(w, `{"success": 10, "remain": 15}`)
		case 2:
			fmt.Fprint(w, `{"success": 10, "remain": 5}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	store, err := queue.NewLineStore(path)
	require.NoError(t, err)
	defer store.Close()

	runner := engine.NewRunner(store, NewSink(server.URL, "s", "t"), 10)
	sum, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, engine.StateSinkError, sum.State)
	assert.Contains(t, sum.Reason, "500")
	assert.Equal(t, 20, sum.Completed)
	assert.Equal(t, 5, sum.Remaining)
	assert.Equal(t, 3, requests)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(urls[20:], "\n")+"\n", string(data))
}
