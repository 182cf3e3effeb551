// Package router wires the command topics to their handlers on a
// watermill router. Every handler is a terminal consumer: results go
// back to Discord through the interaction token, never back onto the
// bus, so everything registers with AddNoPublisherHandler.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	permissionevents "github.com/guildops/permsync/events/permission"
	policyevents "github.com/guildops/permsync/events/policy"
	rolesevents "github.com/guildops/permsync/events/roles"
	permissionhandlers "github.com/guildops/permsync/handlers/permission"
	policyhandlers "github.com/guildops/permsync/handlers/policy"
	roleshandlers "github.com/guildops/permsync/handlers/roles"
)

const consumerName = "permsync"

// Handlers bundles every handler set the router consumes.
type Handlers struct {
	Permission *permissionhandlers.PermissionHandlers
	Roles      *roleshandlers.RoleHandlers
	Policy     *policyhandlers.PolicyHandlers
}

// Router owns the watermill message router and its subscriptions.
type Router struct {
	router     *message.Router
	subscriber message.Subscriber
	logger     *slog.Logger
}

// New creates the router with the standard middleware chain.
func New(subscriber message.Subscriber, logger *slog.Logger, watermillLogger watermill.LoggerAdapter) (*Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		Multiplier:      2.0,
		Logger:          watermillLogger,
	}
	wmRouter.AddMiddleware(
		middleware.CorrelationID,
		retry.Middleware,
		middleware.Recoverer,
	)

	return &Router{
		router:     wmRouter,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Configure registers every topic's handler.
func (r *Router) Configure(handlers Handlers) {
	r.consume(permissionevents.PreviewRequested, handlers.Permission.HandlePreviewRequested)
	r.consume(permissionevents.SyncRequested, handlers.Permission.HandleSyncRequested)
	r.consume(permissionevents.PruneRequested, handlers.Permission.HandlePruneRequested)

	r.consume(rolesevents.BundleAssignRequested, handlers.Roles.HandleBundleAssignRequested)
	r.consume(rolesevents.BundleRemoveRequested, handlers.Roles.HandleBundleRemoveRequested)

	r.consume(policyevents.LevelCommand, handlers.Policy.HandleLevelCommand)
	r.consume(policyevents.BundleCommand, handlers.Policy.HandleBundleCommand)
	r.consume(policyevents.GroupCommand, handlers.Policy.HandleGroupCommand)
	r.consume(policyevents.CategoryCommand, handlers.Policy.HandleCategoryCommand)
	r.consume(policyevents.RuleCommand, handlers.Policy.HandleRuleCommand)
	r.consume(policyevents.BotAccessCommand, handlers.Policy.HandleBotAccessCommand)
	r.consume(policyevents.StatusRequested, handlers.Policy.HandleStatusRequested)
}

func (r *Router) consume(topic string, handler message.NoPublishHandlerFunc) {
	r.router.AddNoPublisherHandler(
		consumerName+"."+topic,
		topic,
		r.subscriber,
		handler,
	)
	r.logger.Info("registered handler", slog.String("topic", topic))
}

// Run blocks until ctx is cancelled or the router stops.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel closed once the router is running, which
// gates opening the Discord gateway so no command can arrive before its
// handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}
