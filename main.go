package main

import (
	"context"
	"log"
	"net/http"

	"fiji/account"
	"fiji/bizerror"
	"fiji/client/es"
	"fiji/donation"
	"fiji/event"
	"fiji/eventsearch"
	"fiji/identity"
	"fiji/infra/metrics"
	"fiji/infra/tracing"
	"fiji/invitation"
	"fiji/persistence"
	"fiji/role"
	"fiji/servehttp"
	"fiji/session"
	"fiji/sessions"
	"fiji/twofactor"
	"fiji/workgroup"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infoln("service start")

	if err := session.BootstrapConfig(); err != nil {
		log.Fatalf("session config failed %v\n", err)
	}
	if err := twofactor.BootstrapConfig(); err != nil {
		log.Fatalf("two-factor config failed %v\n", err)
	}
	if err := identity.Bootstrap(); err != nil {
		log.Fatalf("identity provider config failed %v\n", err)
	}

	if closer := tracing.Bootstrap(); closer != nil {
		defer closer.Close()
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(
		&account.User{}, &role.Role{},
		&twofactor.TwoFactorCode{}, &twofactor.TrustedDevice{},
		&event.Event{}, &workgroup.WorkingGroup{},
		&donation.Donation{}, &invitation.Invitation{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := role.DefaultSecurityConfiguration(); err != nil {
		log.Fatalf("security bootstrap failed %v\n", err)
	}

	es.CreateClientFromEnv()

	session.LoadAuthorityFunc = account.LoadAuthority
	session.StampLastLoginFunc = account.StampLastLogin

	engine := gin.New()
	engine.Use(gin.Recovery(), bizerror.ErrorHandling(), tracing.TracingIngress(), metrics.MetricsIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "fiji")
	})
	metrics.RegisterMetricsHandler(engine)

	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterTwoFactorHandler(engine)
	invitation.RegisterInvitationAcceptancesHandler(engine)

	sessions.RegisterSessionHandler(engine, session.AuthFilter())
	sessions.RegisterTrustedDevicesHandler(engine, session.AuthFilter())
	account.RegisterUsersHandler(engine, session.AuthFilter())
	role.RegisterRolesHandler(engine, session.AuthFilter())
	event.RegisterEventsHandler(engine, session.AuthFilter())
	eventsearch.RegisterEventSearchHandler(engine, session.AuthFilter())
	workgroup.RegisterWorkingGroupsHandler(engine, session.AuthFilter())
	donation.RegisterDonationsHandler(engine, session.AuthFilter())
	invitation.RegisterInvitationsHandler(engine, session.AuthFilter())

	servehttp.StartHTTPServer(engine)
}
