package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	appErrors "github.com/frahmantamala/mibu/internal"
	userDatamodel "github.com/frahmantamala/mibu/internal/core/datamodel/user"
	"github.com/frahmantamala/mibu/internal/transport"
	"github.com/frahmantamala/mibu/internal/user"
	userPostgres "github.com/frahmantamala/mibu/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		service *user.Service
		slogger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		service = user.NewService(userPostgres.NewUserRepository(db), slogger)
	})

	It("saves a user and finds it by id and by email", func() {
		saved, err := service.Save(ctx, " Demo@Mibu.ID ", "Demo", "hash")
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.ID).NotTo(BeZero())
		Expect(saved.Email).To(Equal("demo@mibu.id"))

		byID, err := service.GetByID(ctx, saved.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.Name).To(Equal("Demo"))
		Expect(byID.IsActive).To(BeTrue())

		byEmail, err := service.GetByEmail(ctx, "DEMO@mibu.id")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(saved.ID))
	})

	It("updates the existing user on a second save", func() {
		first, err := service.Save(ctx, "demo@mibu.id", "Demo", "hash-1")
		Expect(err).NotTo(HaveOccurred())

		second, err := service.Save(ctx, "demo@mibu.id", "Demo Baru", "hash-2")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ID).To(Equal(first.ID))

		u, err := service.GetByID(ctx, first.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Name).To(Equal("Demo Baru"))
		Expect(u.PasswordHash).To(Equal("hash-2"))
	})

	It("reports unknown users as not found", func() {
		_, err := service.GetByID(ctx, 404)
		Expect(err).To(MatchError(appErrors.ErrUserNotFound))

		_, err = service.GetByEmail(ctx, "nobody@mibu.id")
		Expect(err).To(MatchError(appErrors.ErrUserNotFound))
	})

	It("serves the current user without the password hash", func() {
		saved, err := service.Save(ctx, "demo@mibu.id", "Demo", "secret-hash")
		Expect(err).NotTo(HaveOccurred())
		handler := user.NewHandler(transport.NewBaseHandler(slogger), service)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req = req.WithContext(appErrors.ContextWithUserID(req.Context(), saved.ID))
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("secret-hash"))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["email"]).To(Equal("demo@mibu.id"))
	})

	It("answers 401 without a user in the context", func() {
		handler := user.NewHandler(transport.NewBaseHandler(slogger), service)
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
