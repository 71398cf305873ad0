// Command service grants a role to an existing account. Signup only ever
// creates members, so the first president is set up with this tool.
//
//	go run ./cmd/service -uid <firebase uid> -role president
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GregMSThompson/sas-financier/internal/bootstrap"
	"github.com/GregMSThompson/sas-financier/internal/config"
	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/internal/store"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	uid := flag.String("uid", "", "Firebase UID of the account")
	role := flag.String("role", string(models.RolePresident), "president, tresorier or membre")
	flag.Parse()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	r := models.Role(*role)
	if *uid == "" || !r.Valid() {
		bs.Log.Error("usage: service -uid <uid> -role president|tresorier|membre")
		os.Exit(2)
	}

	ctx := logger.ToContext(context.Background(), bs.Log)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	rstore := store.NewRoleStore(bs.Firestore)

	if _, err := ustore.GetProfile(ctx, *uid); err != nil {
		bs.Log.Warn("no profile for account, granting role anyway", "uid", *uid, "error", err)
	}
	err = rstore.SetRole(ctx, *uid, r)
	exitOnError("failed to set role", err, bs.Log)

	bs.Log.Info("role granted", "uid", *uid, "role", r)
}
