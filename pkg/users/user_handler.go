package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sitegrid-app/sitegrid-backend/pkg/auth"
	"github.com/sitegrid-app/sitegrid-backend/pkg/auth/jwt"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/email"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Handler is the handler for user API calls
type Handler struct {
	UserRepository  UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
	Secret          string
	EmailService    email.Mailer
}

// UserRegister is the route for registering a user
func (handler *Handler) UserRegister(writer http.ResponseWriter, request *http.Request) {
	user := User{}
	body := struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      Role   `json:"role"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	user.Firstname = body.Firstname
	user.Lastname = body.Lastname
	user.Email = body.Email
	user.Role = body.Role
	if user.Role == "" {
		user.Role = RoleSiteSupervisor
	}

	if !user.Role.IsValid() {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Role %s does not exist", user.Role), nil)
		return
	}

	presentUser, _ := handler.UserRepository.FindByEmail(request.Context(), user.Email)
	if presentUser != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
			"User with email "+presentUser.Email+" already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem hashing password", err)
		return
	}
	user.Password = string(hashedPassword)

	v := validator.New()
	err = v.Struct(user)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.UserRepository.Add(request.Context(), &user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"User couldn't be persisted in the database", err)
		return
	}

	if handler.EmailService != nil {
		err = handler.EmailService.SendEmail(request.Context(), &email.Email{
			ReceiverName:    fmt.Sprintf("%s %s", user.Firstname, user.Lastname),
			ReceiverAddress: user.Email,
			Template:        email.TemplateWelcome,
			Parameters: map[string]interface{}{
				"firstname": user.Firstname,
			},
		})
		if err != nil {
			handler.Logger.Warning("Could not send welcome mail", err)
		}

		err = handler.EmailService.AddToList(request.Context(), user.Email, email.AppUsersListID)
		if err != nil {
			handler.Logger.Warning("Could not add user to app users list", err)
		}
	}

	handler.generateAndRespondWithTokens(&user, writer)
}

// UserLogin is the route for user authentication
func (handler *Handler) UserLogin(writer http.ResponseWriter, request *http.Request) {
	userLogin := UserLogin{}
	err := json.NewDecoder(request.Body).Decode(&userLogin)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(userLogin)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	user, err := handler.UserRepository.FindByEmail(request.Context(), userLogin.Email)
	if err != nil || user == nil || user.IsDeactivated {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userLogin.Password))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	handler.generateAndRespondWithTokens(user, writer)
}

// UserGet is the route for fetching a single user
func (handler *Handler) UserGet(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find user %s", userID), err)
		return
	}

	handler.ResponseManager.Respond(writer, user)
}

// UserAddDevice upserts a DeviceToken for push notifications
func (handler *Handler) UserAddDevice(writer http.ResponseWriter, request *http.Request) {
	userID := request.Context().Value(auth.KeyUserID).(string)

	body := map[string]string{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	deviceToken := body["deviceToken"]

	if deviceToken == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Must provide deviceToken", nil)
		return
	}

	u, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"User wasn't found", err)
		return
	}

	found := false
	for i, token := range u.DeviceTokens {
		if token.Token == deviceToken {
			u.DeviceTokens[i].LastRegistered = time.Now()
			found = true
			break
		}
	}

	if !found {
		if len(u.DeviceTokens) >= 10 {
			handler.ResponseManager.RespondWithError(writer, http.StatusTooManyRequests,
				"Too many registered devices", err)
			return
		}

		u.DeviceTokens = append(u.DeviceTokens, DeviceToken{Token: deviceToken, LastRegistered: time.Now()})
	}

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update user", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

func (handler *Handler) generateAndRespondWithTokens(user *User, writer http.ResponseWriter) {
	accessClaims := jwt.Claims{
		Subject:        user.ID.Hex(),
		Issuer:         "sitegrid",
		IssuedAt:       time.Now().Unix(),
		ExpirationTime: time.Now().AddDate(0, 0, 1).Unix(),
		TokenType:      jwt.TokenTypeAccess,
		Role:           string(user.Role),
	}
	accessToken := jwt.New(jwt.AlgHS256, accessClaims)

	refreshTokenClaims := jwt.Claims{
		Subject:   user.ID.Hex(),
		Issuer:    "sitegrid",
		IssuedAt:  time.Now().Unix(),
		TokenType: jwt.TokenTypeRefresh,
		Role:      string(user.Role),
	}
	refreshToken := jwt.New(jwt.AlgHS256, refreshTokenClaims)

	accessTokenString, err := accessToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem signing access token", err)
		return
	}

	refreshTokenString, err := refreshToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem signing refresh token", err)
		return
	}

	var response = map[string]interface{}{
		"result":       user,
		"accessToken":  accessTokenString,
		"refreshToken": refreshTokenString,
	}

	handler.ResponseManager.Respond(writer, response)
}
