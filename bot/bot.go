// Package bot assembles the application: config, store, services,
// handlers, the watermill router and the Discord session.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/config"
	"github.com/guildops/permsync/discord"
	permissionhandlers "github.com/guildops/permsync/handlers/permission"
	policyhandlers "github.com/guildops/permsync/handlers/policy"
	roleshandlers "github.com/guildops/permsync/handlers/roles"
	"github.com/guildops/permsync/router"
	"github.com/guildops/permsync/services/access"
	"github.com/guildops/permsync/services/permission"
	"github.com/guildops/permsync/services/roles"
	"github.com/guildops/permsync/storage"
)

// Bot owns every long-lived component and their shutdown order.
type Bot struct {
	session discord.Session
	gateway *discord.GatewayEventHandler
	router  *router.Router
	pubSub  *gochannel.GoChannel
	cfg     *config.Config
	logger  *slog.Logger
}

// New wires the application together but does not connect anywhere yet.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, wmLogger watermill.LoggerAdapter) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	session := discord.NewDiscordSession(dg, logger)

	cache, err := storage.NewDocumentCache(ctx, cfg.Storage.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}
	store := storage.NewFileStore(cfg.Storage.DataDir, permission.DefaultLevels(), cache, logger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)

	ops := discord.NewOperations(session, cfg.Discord.AppID, logger)
	checker := access.NewChecker(store, logger)
	permissionService := permission.NewService(session, store, logger)
	rolesService := roles.NewService(session, store, logger)

	msgRouter, err := router.New(pubSub, logger, wmLogger)
	if err != nil {
		return nil, err
	}
	msgRouter.Configure(router.Handlers{
		Permission: permissionhandlers.NewPermissionHandlers(permissionService, checker, ops, logger),
		Roles:      roleshandlers.NewRoleHandlers(rolesService, checker, ops, logger),
		Policy:     policyhandlers.NewPolicyHandlers(store, checker, ops, logger),
	})

	return &Bot{
		session: session,
		gateway: discord.NewGatewayEventHandler(session, pubSub, logger),
		router:  msgRouter,
		pubSub:  pubSub,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Run starts the router, registers commands and opens the gateway. It
// blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	routerDone := make(chan error, 1)
	go func() {
		routerDone <- b.router.Run(ctx)
	}()

	// The gateway must not open before the router is subscribed, or an
	// early command would publish into the void.
	select {
	case <-b.router.Running():
	case err := <-routerDone:
		return fmt.Errorf("router stopped before running: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := discord.RegisterCommands(b.session, b.cfg.Discord.AppID, b.cfg.Discord.GuildID, b.logger); err != nil {
		return err
	}

	b.gateway.Register()
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) {
		b.logger.Info("Discord bot is connected and ready.")
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	b.logger.Info("Discord bot is now running.",
		slog.String("service", b.cfg.Service.Name))

	<-ctx.Done()
	b.Close()
	return <-routerDone
}

// Close shuts everything down in reverse start order.
func (b *Bot) Close() {
	if err := b.session.Close(); err != nil {
		b.logger.Error("Failed to close Discord session", slog.Any("error", err))
	}
	if err := b.router.Close(); err != nil {
		b.logger.Error("Failed to close message router", slog.Any("error", err))
	}
	if err := b.pubSub.Close(); err != nil {
		b.logger.Error("Failed to close pub/sub", slog.Any("error", err))
	}
}
