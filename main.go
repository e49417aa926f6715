package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gantt-project/microservices/planning-service/handlers"
	"gantt-project/microservices/planning-service/logging"
	"gantt-project/microservices/planning-service/repositories"
	"gantt-project/microservices/planning-service/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", os.Getenv("CORS_ORIGIN"))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func createProjectNameIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on project name: %v", err)
	}
	return nil
}

func createEmployeeEmailIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on employee email: %v", err)
	}
	return nil
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Planning Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	planningDB := client.Database("planning_db")
	if err := createProjectNameIndex(planningDB.Collection("projects")); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}
	if err := createEmployeeEmailIndex(planningDB.Collection("employees")); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	neo4jUri := os.Getenv("NEO4J_URI")
	neo4jUser := os.Getenv("NEO4J_USERNAME")
	neo4jPassword := os.Getenv("NEO4J_PASSWORD")
	if neo4jUri == "" || neo4jUser == "" || neo4jPassword == "" {
		logging.Logger.Fatal("Event ID: ENV_MISSING, Description: Neo4j connection details are missing in .env")
	}

	driver, err := neo4j.NewDriverWithContext(neo4jUri, neo4j.BasicAuth(neo4jUser, neo4jPassword, ""))
	if err != nil {
		logging.Logger.Fatalf("Event ID: NEO4J_CONNECTION_FAILED, Description: Failed to create Neo4j driver: %v", err)
	}
	defer driver.Close(context.Background())
	logging.Logger.Infof("Event ID: NEO4J_CONNECTED, Description: Neo4j driver created for %s.", neo4jUri)

	cassandraLogger := log.New(os.Stdout, "[planning-notifications] ", log.LstdFlags)
	notificationRepo, err := repositories.NewNotificationRepo(cassandraLogger)
	if err != nil {
		logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: Failed to initialize notification repository: %v", err)
	}
	defer notificationRepo.CloseSession()
	notificationRepo.CreateTable()

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotificationsCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	workflowService := services.NewWorkflowService(driver)
	notificationService := services.NewNotificationService(notificationRepo, notificationsBreaker)
	employeeService := services.NewEmployeeService(client)
	projectService := services.NewProjectService(client, workflowService)
	memberService := services.NewMemberService(client)
	phaseService := services.NewPhaseService(client)
	taskService := services.NewTaskService(client, workflowService)
	checklistService := services.NewChecklistService(client)
	scheduleService := services.NewScheduleService(client, workflowService, notificationService)

	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	projectHandler := handlers.NewProjectHandler(projectService)
	memberHandler := handlers.NewMemberHandler(memberService)
	phaseHandler := handlers.NewPhaseHandler(phaseService)
	taskHandler := handlers.NewTaskHandler(taskService)
	checklistHandler := handlers.NewChecklistHandler(checklistService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService, taskService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	codeHandler := handlers.NewCodeHandler()

	router := mux.NewRouter()

	router.HandleFunc("/api/employees", employeeHandler.CreateEmployee).Methods("POST")
	router.HandleFunc("/api/employees", employeeHandler.GetAllEmployees).Methods("GET")
	router.HandleFunc("/api/employees/{id}", employeeHandler.GetEmployeeByID).Methods("GET")
	router.HandleFunc("/api/employees/{id}", employeeHandler.UpdateEmployee).Methods("PUT")
	router.HandleFunc("/api/employees/{id}", employeeHandler.DeleteEmployee).Methods("DELETE")

	router.HandleFunc("/api/projects", projectHandler.CreateProject).Methods("POST")
	router.HandleFunc("/api/projects", projectHandler.GetAllProjects).Methods("GET")
	router.HandleFunc("/api/projects/{id}", projectHandler.GetProjectByID).Methods("GET")
	router.HandleFunc("/api/projects/{id}", projectHandler.UpdateProject).Methods("PUT")
	router.HandleFunc("/api/projects/{id}", projectHandler.DeleteProject).Methods("DELETE")

	router.HandleFunc("/api/projects/{id}/members", memberHandler.AddMember).Methods("POST")
	router.HandleFunc("/api/projects/{id}/members", memberHandler.GetProjectMembers).Methods("GET")
	router.HandleFunc("/api/projects/{id}/members/{employeeId}", memberHandler.UpdateMember).Methods("PUT")
	router.HandleFunc("/api/projects/{id}/members/{employeeId}", memberHandler.RemoveMember).Methods("DELETE")

	router.HandleFunc("/api/projects/{id}/phases", phaseHandler.CreatePhase).Methods("POST")
	router.HandleFunc("/api/projects/{id}/phases", phaseHandler.GetPhasesByProject).Methods("GET")
	router.HandleFunc("/api/phases/{id}", phaseHandler.UpdatePhase).Methods("PUT")
	router.HandleFunc("/api/phases/{id}", phaseHandler.DeletePhase).Methods("DELETE")

	router.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods("POST")
	router.HandleFunc("/api/tasks/{id}", taskHandler.GetTaskByID).Methods("GET")
	router.HandleFunc("/api/projects/{id}/tasks", taskHandler.GetTasksByProject).Methods("GET")
	router.HandleFunc("/api/tasks/{id}", taskHandler.UpdateTask).Methods("PUT")
	router.HandleFunc("/api/tasks/{id}/position", taskHandler.UpdateTaskPosition).Methods("PUT")
	router.HandleFunc("/api/tasks/{id}/status", taskHandler.ChangeTaskStatus).Methods("PUT")
	router.HandleFunc("/api/tasks/{id}", taskHandler.DeleteTask).Methods("DELETE")

	router.HandleFunc("/api/tasks/{id}/checklist", checklistHandler.AddChecklistItem).Methods("POST")
	router.HandleFunc("/api/tasks/{id}/checklist", checklistHandler.GetChecklistByTask).Methods("GET")
	router.HandleFunc("/api/checklist/{id}", checklistHandler.UpdateChecklistItem).Methods("PUT")
	router.HandleFunc("/api/checklist/{id}", checklistHandler.DeleteChecklistItem).Methods("DELETE")

	router.HandleFunc("/api/dependencies", workflowHandler.AddDependency).Methods("POST")
	router.HandleFunc("/api/dependencies/{taskId}/{dependsOnId}", workflowHandler.RemoveDependency).Methods("DELETE")
	router.HandleFunc("/api/tasks/{id}/dependencies", workflowHandler.GetDependencies).Methods("GET")
	router.HandleFunc("/api/projects/{id}/graph", workflowHandler.GetWorkflowGraph).Methods("GET")

	router.HandleFunc("/api/projects/{id}/calculate-schedule", scheduleHandler.CalculateSchedule).Methods("POST")

	router.HandleFunc("/api/notifications/read", notificationHandler.MarkNotificationAsRead).Methods("PUT")
	router.HandleFunc("/api/notifications/delete", notificationHandler.DeleteNotification).Methods("DELETE")
	router.HandleFunc("/api/notifications/{employeeId}", notificationHandler.GetNotificationsByEmployee).Methods("GET")

	router.HandleFunc("/api/codes/{type}", codeHandler.GetCodesByType).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Planning service is running"))
	}).Methods("GET")

	corsRouter := enableCORS(router)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	srv := &http.Server{
		Handler:      corsRouter,
		Addr:         port,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVICE_READY, Description: Planning service running on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
