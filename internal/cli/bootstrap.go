// Package cli provides the cobra commands of the maintlog application.
package cli

import (
	gocontext "context"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/maintlog/internal/config"
	"github.com/example/maintlog/internal/ctxutil"
	"github.com/example/maintlog/internal/wire"
)

// globalActorID stores the actor recorded in the change log for the current
// CLI invocation. Set once at startup by BindGlobalFlags.
var globalActorID string

// globalPassword holds the --password flag value.
var globalPassword string

// BindGlobalFlags registers the persistent flags shared by every command and
// applies them before any command runs.
func BindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("dir", "", "workspace directory (default $MAINTLOG_DIR or .)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("actor", "", "name recorded in the change log (default $USER)")
	root.PersistentFlags().StringVar(&globalPassword, "password", "", "supervisor password (default $MAINTLOG_PASSWORD)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		level, _ := cmd.Flags().GetString("log-level")
		actor, _ := cmd.Flags().GetString("actor")

		wire.Configure(wire.Options{Dir: dir, LogLevel: level})
		DetectAndStoreActor(actor)
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		wire.Close()
	}
}

// DetectAndStoreActor resolves the actor name and stores it globally.
// An explicit name wins over the login user.
func DetectAndStoreActor(explicit string) {
	if name := strings.TrimSpace(explicit); name != "" {
		globalActorID = name
		return
	}
	if name := os.Getenv("USER"); name != "" {
		globalActorID = name
		return
	}
	if u, err := user.Current(); err == nil {
		globalActorID = u.Username
	}
}

// GetActorID returns the stored actor ID from CLI startup.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// requireSupervisor checks the supervisor password before a destructive
// operation.
func requireSupervisor() error {
	password := globalPassword
	if password == "" {
		password = os.Getenv(config.EnvPassword)
	}
	return wire.Supervisor().Authorize(password)
}
