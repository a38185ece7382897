package reports

import (
	"database/sql"

	"github.com/de-tools/reporter/pkg/reports/adminlog"
	"github.com/de-tools/reporter/pkg/services/config"
	"github.com/de-tools/reporter/pkg/services/discovery"
	sqlstore "github.com/de-tools/reporter/pkg/store/sql"
)

type Dependencies struct {
	DB       *sql.DB
	Settings *config.Settings
}

// Catalog returns every app compiled into the binary. Which of them are
// scanned for reports is decided by the installed_apps setting.
func Catalog(deps Dependencies) discovery.Catalog {
	adminLogStore := sqlstore.NewAdminLogStore(deps.DB, deps.Settings.Database.Driver)

	return discovery.Catalog{
		"admin": {
			Name:    "admin",
			Reports: adminlog.Register(adminLogStore, deps.Settings.Recipients(adminlog.Name)),
		},
		"auth": {Name: "auth"},
	}
}
