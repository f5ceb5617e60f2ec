package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	modelchat "github.com/atelierlab/art-coach/backend/internal/model/chat"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	chatservice "github.com/atelierlab/art-coach/backend/internal/service/chat"
)

type chunkedStreamer struct {
	chunks []string
}

func (c *chunkedStreamer) Complete(_ context.Context, _ string, _ []modelchat.Turn) (string, error) {
	return strings.Join(c.chunks, ""), nil
}

func (c *chunkedStreamer) Stream(_ context.Context, _ string, _ []modelchat.Turn, onDelta func(string)) (string, error) {
	for _, chunk := range c.chunks {
		onDelta(chunk)
	}
	return strings.Join(c.chunks, ""), nil
}

func dialSession(t *testing.T, chatSvc *chatservice.Service, completer ai.Completer) (*websocket.Conn, modelchat.Session) {
	t.Helper()

	drawing, _ := coach.NewMemoryStore(coach.Seed()).FindByID("drawing")
	session, err := chatSvc.CreateSession(context.Background(), drawing, "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	handler := New(ai.NewService(completer, nil, chatSvc))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + session.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn, session
}

func TestWebSocketExchangeStreamsDeltas(t *testing.T) {
	chatSvc := chatservice.NewService()
	conn, session := dialSession(t, chatSvc, &chunkedStreamer{chunks: []string{"Use ", "grid ", "guides."}})

	if err := conn.WriteJSON(inboundMessage{Text: "How do I fix proportions?"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var streamed string
	for {
		var msg outboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read err: %v", err)
		}
		if msg.Event == "delta" {
			streamed += msg.Content
			continue
		}
		if msg.Event != "exchange" {
			t.Fatalf("unexpected event: %+v", msg)
		}
		if msg.Exchange == nil || msg.Exchange.AssistantTurn.Text != "Use grid guides." {
			t.Fatalf("unexpected exchange payload: %+v", msg.Exchange)
		}
		break
	}
	if streamed != "Use grid guides." {
		t.Fatalf("unexpected streamed text: %q", streamed)
	}

	history, err := chatSvc.History(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected [system, user, assistant], got %d turns", len(history))
	}
}

func TestWebSocketEmptyTextReportsError(t *testing.T) {
	chatSvc := chatservice.NewService()
	conn, session := dialSession(t, chatSvc, &chunkedStreamer{chunks: []string{"unused"}})

	if err := conn.WriteJSON(inboundMessage{Text: "   "}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg outboundMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if msg.Event != "error" || msg.Error == "" {
		t.Fatalf("expected error event, got %+v", msg)
	}

	history, err := chatSvc.History(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("rejected submission changed history: %d turns", len(history))
	}
}
