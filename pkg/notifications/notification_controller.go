package notifications

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sitegrid-app/sitegrid-backend/pkg/environment"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"github.com/sitegrid-app/sitegrid-backend/pkg/tasks"
	"github.com/sitegrid-app/sitegrid-backend/pkg/users"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// NotificationController can send Messages to Google Cloud Messaging
type NotificationController struct {
	Logger         logger.Interface
	Client         messaging.Client
	UserRepository users.UserRepositoryInterface
}

// NewNotificationController construct a NotificationController
func NewNotificationController(logger logger.Interface, userRepository users.UserRepositoryInterface) NotificationController {
	ctrl := NotificationController{}
	ctx := context.Background()

	opt := option.WithAPIKey(environment.Global.Firebase)
	config := &firebase.Config{ProjectID: environment.Global.GCPProjectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		logger.Fatal(err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Fatal(err)
	}

	ctrl.Client = *client
	ctrl.Logger = logger
	ctrl.UserRepository = userRepository

	return ctrl
}

// OnNotify gets called when a task changes and fans a sync push out to everyone assigned to it
func (n *NotificationController) OnNotify(task *tasks.Task) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	for _, userID := range task.AssignedTo {
		userID := userID

		group.Go(func() error {
			user, err := n.UserRepository.FindByID(groupCtx, userID.Hex())
			if err != nil {
				n.Logger.Error("Could not find assigned user", err)
				return nil
			}

			if len(user.DeviceTokens) == 0 {
				return nil
			}

			var tokens []string
			for _, token := range user.DeviceTokens {
				tokens = append(tokens, token.Token)
			}

			message := &messaging.MulticastMessage{
				Data: map[string]string{
					"collapse_key": "sync",
					"taskId":       task.ID.Hex(),
				},
				Tokens: tokens,
			}

			_, err = n.Client.SendMulticast(groupCtx, message)
			if err != nil {
				n.Logger.Error("Could not send messaging request", err)
			}

			return nil
		})
	}

	_ = group.Wait()
}
