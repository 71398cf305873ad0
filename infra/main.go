package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/sas-financier/infra/cloudrun"
	"github.com/GregMSThompson/sas-financier/infra/docker"
	"github.com/GregMSThompson/sas-financier/infra/firestore"
	"github.com/GregMSThompson/sas-financier/infra/identity"
	"github.com/GregMSThompson/sas-financier/infra/kms"
	"github.com/GregMSThompson/sas-financier/infra/provider"
	"github.com/GregMSThompson/sas-financier/infra/storage"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// receipts, logos and profile photos
		bucket, err := storage.SetupBucket(ctx, prov)
		if err != nil {
			return err
		}

		// key sealing member INE / numéro de dossier
		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyID, err := kms.CreateKey(ctx, prov, "sas-financier", "membres")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		sa, err := cloudrun.SetupCloudRun(ctx, prov, cloudrun.Resources{
			Bucket: bucket.Name,
			KeyID:  keyID,
		}, ident, repo, kmsSvc)
		if err != nil {
			return err
		}

		ctx.Export("bucket", bucket.Name)
		ctx.Export("serviceAccount", sa.Email)
		return nil
	})
}
