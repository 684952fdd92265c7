package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/vendia/internal/api/v1"
	"github.com/gosuda/vendia/internal/chat"
)

func registerAPIRoutes(api huma.API, svc *chat.Service) {
	v1.RegisterChatRoutes(api, svc)
}
