package http

import (
	"github.com/go-badge-engine/internal/application/notification"
	"github.com/go-badge-engine/internal/application/subscription"
	jwtinfra "github.com/go-badge-engine/internal/infrastructure/jwt"
	"github.com/go-badge-engine/internal/transport/http/handler"
	"go.uber.org/zap"
)

// Deps holds the services and infrastructure the router mounts.
type Deps struct {
	Dispatcher    handler.Dispatcher
	Badges        handler.BadgeQuery
	Notifications notification.Service
	Subscriptions subscription.Service
	Realtime      handler.Upgrader
	JWTProvider   *jwtinfra.Provider
	Logger        *zap.Logger
}
