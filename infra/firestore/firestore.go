package firestore

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

type indexField struct {
	path  string
	order string
}

// composite indexes backing the transaction list filters and the per-user
// history query.
var transactionIndexes = map[string][]indexField{
	"txStatutCreated":    {{"statut", "ASCENDING"}, {"createdAt", "DESCENDING"}},
	"txStatutDate":       {{"statut", "ASCENDING"}, {"dateTransaction", "DESCENDING"}},
	"txTypeCreated":      {{"type", "ASCENDING"}, {"createdAt", "DESCENDING"}},
	"txCreatorCreated":   {{"createdBy", "ASCENDING"}, {"createdAt", "DESCENDING"}},
	"txApproverCreated":  {{"approuvePar", "ASCENDING"}, {"createdAt", "DESCENDING"}},
	"txStatutTypeCreate": {{"statut", "ASCENDING"}, {"type", "ASCENDING"}, {"createdAt", "DESCENDING"}},
}

func SetupFirestore(ctx *pulumi.Context, prov *gcp.Provider) error {
	svc, err := enableFireStore(ctx, prov)
	if err != nil {
		return err
	}

	db, err := createDatabase(ctx, prov, svc)
	if err != nil {
		return err
	}

	return createIndexes(ctx, prov, db)
}

func enableFireStore(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "firestore", &projects.ServiceArgs{
		Service: pulumi.String("firestore.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func createDatabase(ctx *pulumi.Context, prov *gcp.Provider, res ...pulumi.Resource) (*firestore.Database, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	return firestore.NewDatabase(ctx, "firestoreDatabase", &firestore.DatabaseArgs{
		Name:       pulumi.String("(default)"),
		Project:    pulumi.String(projectID),
		LocationId: pulumi.String(region),
		Type:       pulumi.String("FIRESTORE_NATIVE"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

func createIndexes(ctx *pulumi.Context, prov *gcp.Provider, db *firestore.Database) error {
	for name, fields := range transactionIndexes {
		args := firestore.IndexFieldArray{}
		for _, f := range fields {
			args = append(args, firestore.IndexFieldArgs{
				FieldPath: pulumi.String(f.path),
				Order:     pulumi.String(f.order),
			})
		}

		_, err := firestore.NewIndex(ctx, name, &firestore.IndexArgs{
			Database:   db.Name,
			Collection: pulumi.String("transactions"),
			Fields:     args,
		},
			pulumi.Provider(prov),
			pulumi.DependsOn([]pulumi.Resource{db}),
		)
		if err != nil {
			return fmt.Errorf("firestore index %s: %w", name, err)
		}
	}
	return nil
}
