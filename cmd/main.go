package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sitegrid-app/sitegrid-backend/pkg/auth"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/email"
	"github.com/sitegrid-app/sitegrid-backend/pkg/environment"
	"github.com/sitegrid-app/sitegrid-backend/pkg/locking"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"github.com/sitegrid-app/sitegrid-backend/pkg/notifications"
	"github.com/sitegrid-app/sitegrid-backend/pkg/projects"
	"github.com/sitegrid-app/sitegrid-backend/pkg/tasks"
	"github.com/sitegrid-app/sitegrid-backend/pkg/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	environment.Initialize()

	reportingLocation, err := time.LoadLocation(environment.Global.ReportingTimezone)
	if err != nil {
		logging.Fatal(err)
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseURL))
	if err != nil {
		log.Fatal(err)
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Panic(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	fmt.Println("Database connected")

	db := client.Database(environment.Global.Database)

	userCollection := db.Collection("Users")
	projectCollection := db.Collection("Projects")
	taskCollection := db.Collection("Tasks")

	var locker locking.LockerInterface
	var progressCache tasks.ProgressCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		locker = locking.NewLockerRedis(redisClient)
		progressCache = tasks.NewProgressCacheRedis(redisClient)
	} else {
		locker = locking.NewLockerMemory()

		memoryCache, err := tasks.NewProgressCacheMemory()
		if err != nil {
			logging.Fatal(err)
		}
		progressCache = memoryCache
	}

	var emailService email.Mailer
	if environment.Global.Sendinblue != "" {
		emailService = email.NewSendInBlueService(environment.Global.Sendinblue)
	}

	responseManager := communication.ResponseManager{Logger: logging}

	userRepository := users.UserRepository{DB: userCollection, Logger: logging}
	projectRepository := &projects.MongoDBProjectRepository{DB: projectCollection, Logger: logging}
	taskRepository := &tasks.MongoDBTaskRepository{DB: taskCollection, Logger: logging}

	if environment.Global.Firebase != "" {
		notificationController := notifications.NewNotificationController(logging, userRepository)
		taskRepository.Subscribe(&notificationController)
	}

	progressLedger := &tasks.ProgressLedger{
		TaskRepository: taskRepository,
		UserRepository: userRepository,
		Locker:         locker,
		Cache:          progressCache,
		EmailService:   emailService,
		Logger:         logging,
		Location:       reportingLocation,
	}

	userHandler := users.Handler{
		UserRepository:  userRepository,
		Logger:          logging,
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
		EmailService:    emailService,
	}

	projectHandler := projects.Handler{
		ProjectRepository: projectRepository,
		Logger:            logging,
		ResponseManager:   &responseManager,
	}

	taskHandler := tasks.Handler{
		TaskRepository:    taskRepository,
		ProjectRepository: projectRepository,
		Ledger:            progressLedger,
		Logger:            logging,
		ResponseManager:   &responseManager,
	}

	authMiddleware := auth.AuthenticationMiddleware{
		ResponseManager: &responseManager,
		Secret:          environment.Global.Secret,
	}

	manages := authMiddleware.RequireRoles(string(users.RoleAdmin), string(users.RoleProjectManager))
	adminOnly := authMiddleware.RequireRoles(string(users.RoleAdmin))
	submits := authMiddleware.RequireRoles(string(users.RoleSiteSupervisor), string(users.RoleProjectManager))
	readsProgress := authMiddleware.RequireRoles(string(users.RoleAdmin), string(users.RoleProjectManager), string(users.RoleSiteSupervisor))

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	r.HandleFunc("/register", userHandler.UserRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", userHandler.UserLogin).Methods(http.MethodPost)

	authenticated := r.PathPrefix("/").Subrouter()
	authenticated.Use(authMiddleware.Middleware)

	authenticated.HandleFunc("/user/{userID}", userHandler.UserGet).Methods(http.MethodGet)
	authenticated.HandleFunc("/user/device", userHandler.UserAddDevice).Methods(http.MethodPost)

	authenticated.Handle("/project", manages(http.HandlerFunc(projectHandler.ProjectAdd))).Methods(http.MethodPost)
	authenticated.HandleFunc("/projects", projectHandler.GetAllProjects).Methods(http.MethodGet)
	authenticated.HandleFunc("/project/{projectID}", projectHandler.ProjectGet).Methods(http.MethodGet)
	authenticated.Handle("/project/{projectID}", manages(http.HandlerFunc(projectHandler.ProjectUpdate))).Methods(http.MethodPut)
	authenticated.Handle("/project/{projectID}", adminOnly(http.HandlerFunc(projectHandler.ProjectDelete))).Methods(http.MethodDelete)

	authenticated.Handle("/task", manages(http.HandlerFunc(taskHandler.TaskAdd))).Methods(http.MethodPost)
	authenticated.HandleFunc("/tasks", taskHandler.GetAllTasks).Methods(http.MethodGet)
	authenticated.HandleFunc("/task/{taskID}", taskHandler.TaskGet).Methods(http.MethodGet)
	authenticated.Handle("/task/{taskID}", manages(http.HandlerFunc(taskHandler.TaskUpdate))).Methods(http.MethodPut)
	authenticated.Handle("/task/{taskID}", manages(http.HandlerFunc(taskHandler.TaskDelete))).Methods(http.MethodDelete)

	authenticated.Handle("/task/{taskID}/progress", submits(http.HandlerFunc(taskHandler.ProgressAdd))).Methods(http.MethodPost)
	authenticated.Handle("/task/{taskID}/progress", readsProgress(http.HandlerFunc(taskHandler.ProgressGet))).Methods(http.MethodGet)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})

	http.Handle("/", r)
	log.Panic(http.ListenAndServe(":"+environment.Global.Port, r))
}
