package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/vendia/internal/chat"
	"github.com/gosuda/vendia/internal/domain"
)

const sessionCookieName = "sessionId"

type ChatInput struct {
	SessionHeader string      `header:"X-Session-Id" doc:"Session UUID from a previous reply"`
	SessionCookie http.Cookie `cookie:"sessionId"`
	Body          struct {
		Message   string `json:"message" minLength:"1" maxLength:"4000" doc:"Customer message"`
		SessionID string `json:"session_id,omitempty" required:"false" doc:"Session UUID from a previous reply"`
	}
}

type ChatOutput struct {
	SessionID string      `header:"X-Session-Id"`
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      *chat.Reply
}

// sessionCandidate picks the caller-supplied session id. Body wins over the
// header, the header wins over the cookie.
func (in *ChatInput) sessionCandidate() string {
	if in.Body.SessionID != "" {
		return in.Body.SessionID
	}
	if in.SessionHeader != "" {
		return in.SessionHeader
	}
	return in.SessionCookie.Value
}

func RegisterChatRoutes(api huma.API, svc *chat.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Send a message to the sales assistant",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
		reply, err := svc.Process(ctx, input.Body.Message, input.sessionCandidate())
		if err != nil {
			if domain.IsProviderError(err) {
				return nil, huma.Error502BadGateway("model provider unavailable", err)
			}
			return nil, huma.Error500InternalServerError("failed to process message", err)
		}

		return &ChatOutput{
			SessionID: reply.SessionID,
			SetCookie: http.Cookie{
				Name:     sessionCookieName,
				Value:    reply.SessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			},
			Body: reply,
		}, nil
	})
}
