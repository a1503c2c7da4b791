package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/middleware"
	"servicehub/internal/service/wallet"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

func walletError(err error) error {
	switch {
	case errors.Is(err, wallet.ErrJobNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, wallet.ErrAmountTooLow),
		errors.Is(err, wallet.ErrProofRequired),
		errors.Is(err, wallet.ErrInvalidProof),
		errors.Is(err, wallet.ErrInvalidTxFilter):
		return middleware.BadRequest(err.Error())
	}
	return storageError(err)
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.walletService.Balance(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(balance)
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	res, err := h.walletService.Transactions(c.UserContext(), middleware.GetCurrentUserID(c), c.Query("type"), getPaginationParams(c))
	if err != nil {
		return walletError(err)
	}
	return c.JSON(res)
}

// RequestFunding takes a multipart form with amount_naira and a proof file.
func (h *WalletHandler) RequestFunding(c *fiber.Ctx) error {
	amount, err := parseInt64(c.FormValue("amount_naira"))
	if err != nil {
		return middleware.BadRequest("amount_naira must be a whole number")
	}

	input := wallet.FundingInput{AmountNaira: amount}
	if fh, err := c.FormFile("proof"); err == nil {
		file, err := openFile(fh)
		if err != nil {
			return err
		}
		defer file.Reader.Close()

		input.FileName = file.FileName
		input.ContentType = file.ContentType
		input.Reader = file.Reader
		input.Size = file.Size
	}

	tx, err := h.walletService.RequestFunding(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return walletError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (h *WalletHandler) CheckAccess(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	check, err := h.walletService.CheckAccess(c.UserContext(), middleware.GetCurrentUserID(c), jobID)
	if err != nil {
		return walletError(err)
	}
	return c.JSON(check)
}
