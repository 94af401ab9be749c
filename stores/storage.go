package stores

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Bharadwaj710/Collab-Tool/core"
	"github.com/Bharadwaj710/Collab-Tool/stores/filesystem"
	"github.com/Bharadwaj710/Collab-Tool/stores/memory"
	"github.com/Bharadwaj710/Collab-Tool/stores/mongo"
	"github.com/Bharadwaj710/Collab-Tool/stores/sqlite"
)

// GetStore selects the durable backend from STORAGE_TYPE. Only the
// mongo and in-memory backends carry a user store; the blob-style
// backends return nil and display-name refresh degrades to a no-op.
func GetStore() (core.DocumentStore, core.UserStore) {
	storageType := os.Getenv("STORAGE_TYPE")

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	var (
		store core.DocumentStore
		users core.UserStore
	)

	switch storageType {
	case "mongo":
		uri := os.Getenv("MONGO_URI")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		database := os.Getenv("MONGO_DATABASE")
		if database == "" {
			database = "collabtool"
		}
		storageField["uri"] = uri
		storageField["database"] = database
		m := mongo.NewStore(uri, database)
		store, users = m, m.Users()
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "collabtool.db"
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data"
		}
		storageField["basePath"] = basePath
		store = filesystem.NewStore(basePath)
	default:
		m := memory.NewStore()
		store, users = m, m.Users()
		storageField["storageType"] = "in-memory"
	}

	logrus.WithFields(storageField).Info("Use storage")
	return store, users
}
