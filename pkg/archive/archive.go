package archive

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var reportsBucket = []byte("reports")

// Archive is a local bbolt-backed store keeping rendered report snapshots
// under the workdir, independent of the main database.
type Archive struct {
	db *bolt.DB
}

// Open opens (or creates) the archive file under workdir/data.
func Open(workdir string) (*Archive, error) {
	db, err := bolt.Open(filepath.Join(workdir, "data", "reports.db"), 0o600,
		&bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open report archive")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(reportsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init report archive")
	}
	return &Archive{db: db}, nil
}

// SaveReport stores a rendered report under its name, replacing any
// previous snapshot with that name.
func (a *Archive) SaveReport(name string, payload []byte) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).Put([]byte(name), payload)
	})
}

// GetReport returns the stored payload, or nil when absent.
func (a *Archive) GetReport(name string) ([]byte, error) {
	var out []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(reportsBucket).Get([]byte(name)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// ListReports returns the stored report names in key order.
func (a *Archive) ListReports() ([]string, error) {
	var names []string
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(reportsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (a *Archive) Close() error {
	return a.db.Close()
}
