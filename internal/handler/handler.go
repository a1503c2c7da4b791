package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service"
	"servicehub/internal/storage"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Job          *JobHandler
	Interest     *InterestHandler
	Message      *MessageHandler
	Wallet       *WalletHandler
	Notification *NotificationHandler
	Content      *ContentHandler
	Trade        *TradeHandler
	Admin        *AdminHandler
	Audit        *AuditHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth, services.User),
		User:         NewUserHandler(services.User),
		Job:          NewJobHandler(services.Job),
		Interest:     NewInterestHandler(services.Interest),
		Message:      NewMessageHandler(services.Message),
		Wallet:       NewWalletHandler(services.Wallet),
		Notification: NewNotificationHandler(services.Notification),
		Content:      NewContentHandler(services.Content, services.Audit),
		Trade:        NewTradeHandler(services.Trade, services.Quiz, services.Audit),
		Admin:        NewAdminHandler(services.Admin),
		Audit:        NewAuditHandler(services.Audit),
		Dashboard:    NewDashboardHandler(services.Dashboard),
	}
}

// getPaginationParams reads page/limit, with page_size as an alias for limit and skip as an
// alternative to page.
func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if limit := c.QueryInt("limit", 0); limit > 0 {
		params.PageSize = limit
	} else if pageSize := c.QueryInt("page_size", 0); pageSize > 0 {
		params.PageSize = pageSize
	}
	params.Skip = c.QueryInt("skip", 0)

	params.Validate()
	return params
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + name)
	}
	return id, nil
}

type upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.ReadCloser
}

// formFile opens the multipart file under field. The caller closes the reader.
func formFile(c *fiber.Ctx, field string) (*upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, middleware.BadRequest("File is required")
	}
	return openFile(fh)
}

func openFile(fh *multipart.FileHeader) (*upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, nil
}

func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmptyFile):
		return middleware.BadRequest(err.Error())
	}
	return err
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
