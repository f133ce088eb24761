package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/yungbote/cmi5-backend/internal/app"
	"github.com/yungbote/cmi5-backend/internal/data/db"
	courserepo "github.com/yungbote/cmi5-backend/internal/data/repos/course"
	statementrepo "github.com/yungbote/cmi5-backend/internal/data/repos/statement"
	userrepo "github.com/yungbote/cmi5-backend/internal/data/repos/user"
	"github.com/yungbote/cmi5-backend/internal/data/txn"
	types "github.com/yungbote/cmi5-backend/internal/domain"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/services"
)

const statementAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func main() {
	var n int
	flag.IntVar(&n, "n", 5, "number of users, courses and enrollments to create")
	flag.Parse()

	if err := app.LoadDotEnv(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Fatal("load config", "error", err)
	}
	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		log.Fatal("init database", "error", err)
	}
	defer pg.Close()
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Fatal("database automigrate", "error", err)
	}

	userRepo := userrepo.NewUserRepo(theDB, log)
	courseRepo := courserepo.NewCourseRepo(theDB, log)
	enrollmentRepo := courserepo.NewEnrollmentRepo(theDB, log)
	statementRepo := statementrepo.NewStatementRepo(theDB, log)

	userService := services.NewUserService(theDB, log, userRepo, services.BcryptHasher{})
	courseService := services.NewCourseService(theDB, log, courseRepo, enrollmentRepo, userRepo, cfg.OrganizationID)
	statementService := services.NewStatementService(theDB, log, statementRepo, enrollmentRepo)
	runner := txn.NewGormTxRunner(theDB)

	ctx := context.Background()
	seeded := 0
	for i := 0; i < n; i++ {
		err := runner.InTx(ctx, func(dbc dbctx.Context) error {
			u, err := seedUser(dbc, userService, i)
			if err != nil {
				return err
			}
			c, err := courseService.Create(dbc, fmt.Sprintf("Course_%d", i), fmt.Sprintf("Description_%d", i), "")
			if err != nil {
				return err
			}
			if _, err := courseService.Enroll(dbc, c.ID, u.ID); err != nil {
				return err
			}
			payload, err := json.Marshal(map[string]any{"status": true, "data": randomString(100)})
			if err != nil {
				return err
			}
			_, err = statementService.Submit(dbc, c.ID, u.ID, payload)
			return err
		})
		if err != nil {
			log.Error("seed row failed", "index", i, "error", err)
			continue
		}
		seeded++
	}
	log.Info("seed complete", "requested", n, "seeded", seeded)
}

// seedUser reuses an existing fixture user so the seeder can be rerun.
func seedUser(dbc dbctx.Context, users services.UserService, i int) (*types.User, error) {
	email := fmt.Sprintf("test_%d@gmail.com", i)
	u, err := users.Create(dbc, email, "password")
	if errs.IsCode(err, errs.CodeConflict) {
		return users.GetByEmail(dbc, email)
	}
	return u, err
}

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = statementAlphabet[rand.IntN(len(statementAlphabet))]
	}
	return string(b)
}
