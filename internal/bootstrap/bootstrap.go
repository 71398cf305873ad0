package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/sas-financier/internal/config"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Storage   *storage.Client
	// KMS is nil when no key is configured.
	KMS *gcpkms.KeyManagementClient
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Storage, err = InitStorage(applicationCtx)
	if err != nil {
		return bs, err
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = InitKMS(applicationCtx)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Warn("KMSKEYNAME not set, member identifiers are stored unencrypted")
	}

	return bs, nil
}

// Close releases every client that was opened.
func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	if bs.Storage != nil {
		errList = append(errList, bs.Storage.Close())
	}
	if bs.KMS != nil {
		errList = append(errList, bs.KMS.Close())
	}
	return errors.Join(errList...)
}
