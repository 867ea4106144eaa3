package main

import (
	authhandler "github.com/MuhammadFeyaz/go2koereskole/internal/auth/handler"
	authmw "github.com/MuhammadFeyaz/go2koereskole/internal/auth/middleware"
	authrepo "github.com/MuhammadFeyaz/go2koereskole/internal/auth/repository"
	authservice "github.com/MuhammadFeyaz/go2koereskole/internal/auth/service"
	"github.com/MuhammadFeyaz/go2koereskole/internal/bookings/events"
	bookingshandler "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/handler"
	bookingsrepo "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/repository"
	bookingsservice "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/service"
	bookingsvalidator "github.com/MuhammadFeyaz/go2koereskole/internal/bookings/validator"
	contenthandler "github.com/MuhammadFeyaz/go2koereskole/internal/content/handler"
	studentshandler "github.com/MuhammadFeyaz/go2koereskole/internal/students/handler"
	studentsrepo "github.com/MuhammadFeyaz/go2koereskole/internal/students/repository"
	studentsservice "github.com/MuhammadFeyaz/go2koereskole/internal/students/service"
	studentsvalidator "github.com/MuhammadFeyaz/go2koereskole/internal/students/validator"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/app"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/config"
	"github.com/MuhammadFeyaz/go2koereskole/pkg/kafka"
)

const ServiceName = "go2koereskole"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking server")

	// Repositories
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewAdmissionLockRepository(cfg)
	studentRepo := studentsrepo.NewMongoStudentRepository(cfg)
	sessionRepo := authrepo.NewMongoSessionRepository(cfg)

	// Services
	publisher, closePublisher := initPublisher(cfg)
	defer closePublisher()
	bookingValidator := bookingsvalidator.NewBookingValidator(cfg.Log, cfg.AllowedLocations, cfg.MaxLessonDurationMin)
	bookingService := bookingsservice.NewBookingService(bookingRepo, lockRepo, bookingValidator, publisher, cfg)

	studentValidator := studentsvalidator.NewStudentValidator(cfg.Log)
	studentService := studentsservice.NewStudentService(studentRepo, bookingRepo, studentValidator, cfg)

	authService := authservice.NewAuthService(sessionRepo, studentRepo, cfg)
	guard := authmw.NewGuard(authService, cfg.SessionCookieName, cfg.Log)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		authhandler.NewAuthHandler(authService, guard, cfg.SessionCookieName, cfg.SessionTTL, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, guard, cfg.Log),
		studentshandler.NewStudentHandler(studentService, guard, cfg.Log),
		contenthandler.NewContentHandler(cfg.AllowedLocations, cfg.Log),
	)
	serverApp.Run()
}

// initPublisher wires the Kafka producer when brokers are configured and
// falls back to a no-op publisher otherwise, so a single-node deployment
// does not need a broker.
func initPublisher(cfg *config.Config) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NopPublisher{}, func() {}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(producer), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}
