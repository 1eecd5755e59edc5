// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linkuphq/linkup/internal/app/store/records"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Records is the store interface the feature handlers work against; it
// is backed by MongoDatabase here and by an in-memory store in tests.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Records       records.Store
}
