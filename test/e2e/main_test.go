package e2e

import (
	"fmt"
	"os"
	"testing"

	"github.com/fhuszti/movies-ms-go/test/testutil"
	"github.com/minio/minio-go/v7"
)

var GlobalMinioClient *minio.Client

func TestMain(m *testing.M) {
	code := func() int {
		ci, err := testutil.StartMariaDBContainer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start MariaDB: %v\n", err)
			return 1
		}
		defer ci.Cleanup()

		if err := os.Setenv("TEST_DB_DSN", ci.DSN); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set TEST_DB_DSN: %v\n", err)
			return 1
		}

		mi, err := testutil.StartMinIOContainer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start MinIO: %v\n", err)
			return 1
		}
		defer mi.Cleanup()
		GlobalMinioClient = mi.Client

		return m.Run()
	}()

	os.Exit(code)
}
