package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/noah-isme/buildbot/internal/bot"
	"github.com/noah-isme/buildbot/internal/handler"
)

var registerGuildID string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Publish the slash command definitions to Discord",
	Long: `register overwrites the application's slash commands. Commands are
registered globally unless --guild (or BUILDBOT_DISCORD_GUILD_ID) names a guild,
which makes them available immediately in that guild only.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.RequireDiscord(); err != nil {
			return err
		}
		logger := newLogger(cmd.OutOrStdout(), cfg)

		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("failed to create discord session: %w", err)
		}

		guildID := registerGuildID
		if guildID == "" {
			guildID = cfg.DiscordGuildID
		}

		// Definitions only; the handler never runs here.
		b := bot.New(session, bot.Options{}, logger)
		b.Register(handler.NewSeeHandler(nil, logger).Command())

		return b.SyncCommands(cfg.DiscordAppID, guildID)
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerGuildID, "guild", "", "register commands in this guild only")
}
