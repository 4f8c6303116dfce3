package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func buildTestHandler(repository UserRepositoryInterface) *Handler {
	return &Handler{
		UserRepository:  repository,
		Logger:          logger.Logger{},
		ResponseManager: &communication.ResponseManager{Logger: logger.Logger{}},
		Secret:          "test-secret",
	}
}

func TestUserRegister(t *testing.T) {
	repository := MockUserRepository{}
	handler := buildTestHandler(&repository)

	body := `{"firstname":"Asha","lastname":"Verma","email":"asha@example.com","password":"secret123","role":"projectmanager"}`
	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.UserRegister(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if len(repository.Users) != 1 {
		t.Fatalf("expected 1 persisted user, got %d", len(repository.Users))
	}

	user := repository.Users[0]
	if user.Role != RoleProjectManager {
		t.Errorf("expected role projectmanager, got %s", user.Role)
	}
	if user.Password == "secret123" {
		t.Error("password must not be stored in plain text")
	}

	response := map[string]interface{}{}
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if response["accessToken"] == nil || response["refreshToken"] == nil {
		t.Error("registration response must carry both tokens")
	}
}

func TestUserRegister_DefaultsToSiteSupervisor(t *testing.T) {
	repository := MockUserRepository{}
	handler := buildTestHandler(&repository)

	body := `{"firstname":"Ravi","lastname":"Naik","email":"ravi@example.com","password":"secret123"}`
	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.UserRegister(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if repository.Users[0].Role != RoleSiteSupervisor {
		t.Errorf("expected default role sitesupervisor, got %s", repository.Users[0].Role)
	}
}

func TestUserRegister_UnknownRole(t *testing.T) {
	handler := buildTestHandler(&MockUserRepository{})

	body := `{"firstname":"Ravi","lastname":"Naik","email":"ravi@example.com","password":"secret123","role":"director"}`
	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.UserRegister(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for an unknown role, got %d", recorder.Code)
	}
}

func TestUserLogin_WrongPassword(t *testing.T) {
	repository := MockUserRepository{}
	handler := buildTestHandler(&repository)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	_ = repository.Add(context.Background(), &User{
		Firstname: "Asha",
		Lastname:  "Verma",
		Email:     "asha@example.com",
		Password:  string(hashed),
		Role:      RoleAdmin,
	})

	body := `{"email":"asha@example.com","password":"wrong"}`
	request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.UserLogin(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for wrong credentials, got %d", recorder.Code)
	}
}
