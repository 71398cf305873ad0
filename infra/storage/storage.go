package storage

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// SetupBucket creates the bucket holding receipts, app logos and profile
// photos. Objects are publicly readable so the stored URLs work directly.
func SetupBucket(ctx *pulumi.Context, prov *gcp.Provider) (*storage.Bucket, error) {
	gcpCfg := config.New(ctx, "gcp")
	projectID := gcpCfg.Require("project")
	region := gcpCfg.Require("region")

	bucket, err := storage.NewBucket(ctx, "filesBucket", &storage.BucketArgs{
		Name:                     pulumi.String(fmt.Sprintf("%s-files", projectID)),
		Location:                 pulumi.String(region),
		UniformBucketLevelAccess: pulumi.Bool(true),
		Cors: storage.BucketCorArray{
			&storage.BucketCorArgs{
				Origins:         pulumi.StringArray{pulumi.String("*")},
				Methods:         pulumi.StringArray{pulumi.String("GET")},
				MaxAgeSeconds:   pulumi.Int(3600),
				ResponseHeaders: pulumi.StringArray{pulumi.String("Content-Type")},
			},
		},
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	_, err = storage.NewBucketIAMMember(ctx, "filesPublicRead", &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectViewer"),
		Member: pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	return bucket, nil
}

// GrantWrite lets the API service account create and delete objects.
func GrantWrite(ctx *pulumi.Context, prov *gcp.Provider, bucket pulumi.StringInput, email pulumi.StringOutput) error {
	_, err := storage.NewBucketIAMMember(ctx, "filesApiWrite", &storage.BucketIAMMemberArgs{
		Bucket: bucket,
		Role:   pulumi.String("roles/storage.objectAdmin"),
		Member: email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
	},
		pulumi.Provider(prov),
	)
	return err
}
