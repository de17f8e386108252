package dynamo

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// dynamoCall is one request received by fakeDynamo, decoded from the JSON
// 1.0 wire format.
type dynamoCall struct {
	Op   string
	Body map[string]any
}

// fakeDynamo speaks just enough of the DynamoDB JSON protocol for repo tests.
// answer decides the status code and body for each operation.
type fakeDynamo struct {
	mu     sync.Mutex
	calls  []dynamoCall
	answer func(op string, body map[string]any) (int, string)
}

func newFakeDynamo(t *testing.T, answer func(op string, body map[string]any) (int, string)) (*fakeDynamo, *dynamodb.Client) {
	t.Helper()
	f := &fakeDynamo{answer: answer}
	srv := httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(srv.Close)

	client := dynamodb.New(dynamodb.Options{
		Region:           "ap-northeast-2",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
	return f, client
}

func (f *fakeDynamo) serveHTTP(w http.ResponseWriter, r *http.Request) {
	op := strings.TrimPrefix(r.Header.Get("X-Amz-Target"), "DynamoDB_20120810.")
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, dynamoCall{Op: op, Body: body})
	f.mu.Unlock()

	status, resp := f.answer(op, body)
	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp)
}

func (f *fakeDynamo) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Op
	}
	return out
}

func (f *fakeDynamo) callsFor(op string) []dynamoCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dynamoCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func dynamoError(kind string) (int, string) {
	return http.StatusBadRequest, `{"__type":"com.amazonaws.dynamodb.v20120810#` + kind + `","message":"` + kind + `"}`
}

func tableName(body map[string]any) string {
	name, _ := body["TableName"].(string)
	return name
}
