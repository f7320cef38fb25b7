package storage

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/common"
)

// Locator converts between storage keys and location references. The two
// conversions are exact inverses.
type Locator struct {
	prefix string
}

// NewLocator builds a Locator for bucket. With an endpoint (MinIO or any
// path-style S3) references look like endpoint/bucket/key; without one they
// use the virtual-hosted AWS form https://bucket.s3.region.amazonaws.com/key.
func NewLocator(endpoint, bucket, region string) Locator {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint != "" {
		return Locator{prefix: fmt.Sprintf("%s/%s/", endpoint, bucket)}
	}
	return Locator{prefix: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)}
}

func (l Locator) KeyToURL(key string) string {
	return l.prefix + key
}

func (l Locator) URLToKey(url string) (string, error) {
	key, ok := strings.CutPrefix(url, l.prefix)
	if !ok || key == "" {
		return "", common.Wrap(common.ErrorInternal, fmt.Sprintf("location %q is not in this bucket", url), nil)
	}
	return key, nil
}
