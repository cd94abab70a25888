package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"
)

var errEncodeFailed = errors.New("encode failed")

func TestServeWSEchoesEncodedResults(t *testing.T) {
	encode := func(ctx context.Context, query string) ([]byte, error) {
		return []byte(`[{"echo":"` + query + `"}]`), nil
	}

	srv := httptest.NewServer(ServeWS(encode, nil))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	if err := conn.Write(ctx, websocket.MessageText, []byte("mc102")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 1 || got[0]["echo"] != "mc102" {
		t.Fatalf("got %v, want echo of query", got)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestServeWSDegradesToEmptyArrayOnEncodeError(t *testing.T) {
	encode := func(ctx context.Context, query string) ([]byte, error) {
		return nil, errEncodeFailed
	}

	srv := httptest.NewServer(ServeWS(encode, nil))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	if err := conn.Write(ctx, websocket.MessageText, []byte("anything")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("got %q, want \"[]\"", data)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
