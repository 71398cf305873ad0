package store

import (
	"fmt"

	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/GregMSThompson/sas-financier/internal/errs"
)

func aggregationCount(v interface{}) (int, error) {
	val, ok := v.(*firestorepb.Value)
	if !ok {
		return 0, errs.NewDatabaseError("read", "unexpected count result", fmt.Errorf("got %T", v))
	}
	return int(val.GetIntegerValue()), nil
}
