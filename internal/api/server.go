package api

import (
	"github.com/cataloghq/catalog_service/config"
	"github.com/cataloghq/catalog_service/infra/queue"
	"github.com/cataloghq/catalog_service/internal/api/rest/handlers"
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/interfaces"
	"github.com/cataloghq/catalog_service/internal/mailer"
	"github.com/cataloghq/catalog_service/internal/repository"
	"github.com/cataloghq/catalog_service/internal/services"
	cldpkg "github.com/cataloghq/catalog_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Info("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260830

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.Permission{},
		&domain.RolePermission{},
		&domain.Brand{},
		&domain.Product{},
		&domain.ProductView{},
		&domain.Action{},
		&domain.ProductChangeLog{},
		&domain.UserChangeLog{},
		&domain.NotificationStatus{},
		&domain.AdminNotification{},
		&domain.UserSession{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Info("migration successful")

	authHelper := helper.SetupAuth(cfg.AccessSecret)
	seedAll(db, cfg.Seed, authHelper)

	// ---------- Infra ----------
	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
	}

	var uploader interfaces.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := cldpkg.New()
		if err != nil {
			log.Fatalf("cloudinary init error: %v", err)
		}
		uploader = cldpkg.NewCloudinaryUploader(cld)
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.Notify)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	productRepo := repository.NewProductRepository(db)
	viewRepo := repository.NewProductViewRepository(db)
	changeLogRepo := repository.NewChangeLogRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// ---------- Services ----------
	changeLogSvc := services.NewChangeLogService(changeLogRepo, productRepo, userRepo)
	notifSvc := services.NewNotificationService(cfg.Notify, notifRepo, roleRepo, userRepo, productRepo, smtpMailer)
	userSvc := services.NewUserService(userRepo, roleRepo, sessionRepo, changeLogSvc, notifSvc, producer, authHelper, cfg.Seed)
	roleSvc := services.NewRoleService(roleRepo, userRepo)
	permSvc := services.NewPermissionService(permRepo, roleRepo)
	brandSvc := services.NewBrandService(brandRepo)
	productSvc := services.NewProductService(productRepo, brandRepo, userRepo, roleRepo, viewRepo, changeLogSvc, notifSvc, uploader, producer)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewRoleHandler(roleSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewPermissionHandler(permSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewBrandHandler(brandSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewProductHandler(productSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewChangeLogHandler(changeLogSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewNotificationHandler(notifSvc, userSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	addr := cfg.ServerPort
	log.Infof("listening on %s", addr)
	log.Fatal(app.Listen(addr))
}

// seedAll is idempotent: every run checks before it creates, so any
// number of replicas can race through it behind the advisory lock.
func seedAll(db *gorm.DB, seed config.SeedConfig, auth helper.Auth) {
	roleIDs := seedRoles(db)
	permIDs := seedPermissions(db)

	linkRolePermission(db, roleIDs[domain.RoleAdmin], permIDs[domain.PermissionFullAccess])
	linkRolePermission(db, roleIDs[domain.RoleAdmin], permIDs[domain.PermissionReadProducts])
	linkRolePermission(db, roleIDs[domain.RoleAnonymous], permIDs[domain.PermissionReadProducts])

	if !seed.RunSeed {
		return
	}
	seedUser(db, auth, seed.AdminEmail, seed.AdminPassword, "Admin", roleIDs[domain.RoleAdmin])
	seedUser(db, auth, seed.AnonEmail, seed.AnonPassword, "Anonymous", roleIDs[domain.RoleAnonymous])
}

func seedRoles(db *gorm.DB) map[string]uint {
	ids := make(map[string]uint)
	for _, name := range []string{domain.RoleAdmin, domain.RoleAnonymous} {
		var r domain.Role
		err := db.Where("name = ?", name).First(&r).Error
		if err == gorm.ErrRecordNotFound {
			r = domain.Role{Name: name, Description: name + " role", Status: true}
			_ = db.Create(&r).Error
		}
		ids[name] = r.ID
	}
	return ids
}

func seedPermissions(db *gorm.DB) map[string]uint {
	ids := make(map[string]uint)
	for _, name := range []string{domain.PermissionFullAccess, domain.PermissionReadProducts} {
		var p domain.Permission
		err := db.Where("name = ?", name).First(&p).Error
		if err == gorm.ErrRecordNotFound {
			p = domain.Permission{Name: name, Description: name, Status: true}
			_ = db.Create(&p).Error
		}
		ids[name] = p.ID
	}
	return ids
}

func linkRolePermission(db *gorm.DB, roleID, permID uint) {
	if roleID == 0 || permID == 0 {
		return
	}
	var link domain.RolePermission
	err := db.Where("role_id = ? AND permission_id = ?", roleID, permID).First(&link).Error
	if err == gorm.ErrRecordNotFound {
		_ = db.Create(&domain.RolePermission{RoleID: roleID, PermissionID: permID}).Error
	}
}

func seedUser(db *gorm.DB, auth helper.Auth, email, password, firstName string, roleID uint) {
	if email == "" || password == "" {
		log.Warnf("seed user %q skipped, missing email or password", firstName)
		return
	}

	var u domain.User
	err := db.Where("email = ?", email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		hashed, herr := auth.HashPassword(password)
		if herr != nil {
			log.Errorf("seed user %s: %v", email, herr)
			return
		}
		u = domain.User{Email: email, FirstName: firstName, Password: hashed, Status: true}
		if cerr := db.Create(&u).Error; cerr != nil {
			log.Errorf("seed user %s: %v", email, cerr)
			return
		}
	}

	if roleID != 0 {
		var link domain.UserRole
		err := db.Where("user_id = ?", u.ID).First(&link).Error
		if err == gorm.ErrRecordNotFound {
			_ = db.Create(&domain.UserRole{UserID: u.ID, RoleID: roleID}).Error
		}
	}
}
