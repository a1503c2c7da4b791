package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"servicehub/internal/domain"
	"servicehub/internal/middleware"
	"servicehub/internal/service/audit"
	"servicehub/internal/service/quiz"
	"servicehub/internal/service/trade"
)

// TradeHandler serves the trade catalogue and the skills quizzes attached to each trade.
type TradeHandler struct {
	tradeService trade.Service
	quizService  quiz.Service
	auditService audit.Service
}

func NewTradeHandler(tradeService trade.Service, quizService quiz.Service, auditService audit.Service) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		quizService:  quizService,
		auditService: auditService,
	}
}

func tradeError(err error) error {
	switch {
	case errors.Is(err, trade.ErrTradeNotFound),
		errors.Is(err, quiz.ErrTradeNotFound),
		errors.Is(err, quiz.ErrQuestionNotFound):
		return middleware.NotFound(err.Error())
	case errors.Is(err, trade.ErrTradeExists):
		return middleware.Conflict(err.Error())
	case errors.Is(err, quiz.ErrTradespersonOnly):
		return middleware.Forbidden(err.Error())
	case errors.Is(err, trade.ErrNameRequired),
		errors.Is(err, quiz.ErrNoAnswers),
		errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quiz.ErrDuplicateQuestion):
		return middleware.BadRequest(err.Error())
	}
	return err
}

func (h *TradeHandler) List(c *fiber.Ctx) error {
	trades, err := h.tradeService.List(c.UserContext(), true)
	if err != nil {
		return err
	}
	return c.JSON(trades)
}

func (h *TradeHandler) AdminList(c *fiber.Ctx) error {
	trades, err := h.tradeService.List(c.UserContext(), false)
	if err != nil {
		return err
	}
	return c.JSON(trades)
}

func (h *TradeHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	t, err := h.tradeService.Get(c.UserContext(), id)
	if err != nil {
		return tradeError(err)
	}
	return c.JSON(t)
}

func (h *TradeHandler) Create(c *fiber.Ctx) error {
	var input domain.TradeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	t, err := h.tradeService.Create(c.UserContext(), input)
	if err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "create", audit.EntityTrade, t.ID, fiber.Map{"name": t.Name})
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TradeHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.TradeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	t, err := h.tradeService.Update(c.UserContext(), id, input)
	if err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "update", audit.EntityTrade, t.ID, input)
	return c.JSON(t)
}

func (h *TradeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.tradeService.Delete(c.UserContext(), id); err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "delete", audit.EntityTrade, id, nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// Quiz administration.

func (h *TradeHandler) ListQuestions(c *fiber.Ctx) error {
	tradeID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	questions, err := h.quizService.ListQuestions(c.UserContext(), tradeID)
	if err != nil {
		return tradeError(err)
	}
	return c.JSON(questions)
}

func (h *TradeHandler) CreateQuestion(c *fiber.Ctx) error {
	tradeID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.QuizQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	q, err := h.quizService.CreateQuestion(c.UserContext(), tradeID, input)
	if err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "create", audit.EntityQuestion, q.ID, fiber.Map{"trade_id": tradeID})
	return c.Status(fiber.StatusCreated).JSON(q)
}

func (h *TradeHandler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.QuizQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	q, err := h.quizService.UpdateQuestion(c.UserContext(), id, input)
	if err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "update", audit.EntityQuestion, q.ID, nil)
	return c.JSON(q)
}

func (h *TradeHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.quizService.DeleteQuestion(c.UserContext(), id); err != nil {
		return tradeError(err)
	}

	h.auditService.Record(c.UserContext(), middleware.GetCurrentUserID(c), "delete", audit.EntityQuestion, id, nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// Quiz taking.

func (h *TradeHandler) StartQuiz(c *fiber.Ctx) error {
	tradeID, err := parseUUIDParam(c, "tradeId")
	if err != nil {
		return err
	}

	questions, err := h.quizService.Start(c.UserContext(), middleware.GetCurrentUser(c), tradeID)
	if err != nil {
		return tradeError(err)
	}
	return c.JSON(fiber.Map{"trade_id": tradeID, "questions": questions})
}

func (h *TradeHandler) SubmitQuiz(c *fiber.Ctx) error {
	tradeID, err := parseUUIDParam(c, "tradeId")
	if err != nil {
		return err
	}

	var input domain.SubmitQuizInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	attempt, err := h.quizService.Submit(c.UserContext(), middleware.GetCurrentUser(c), tradeID, input)
	if err != nil {
		return tradeError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(attempt)
}

func (h *TradeHandler) QuizResults(c *fiber.Ctx) error {
	attempts, err := h.quizService.Results(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(attempts)
}
