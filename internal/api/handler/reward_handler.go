package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// RewardHandler manages reward items, redemption, and airdrops.
type RewardHandler struct {
	service ports.RewardService
}

func NewRewardHandler(service ports.RewardService) *RewardHandler {
	return &RewardHandler{service: service}
}

type createRewardRequest struct {
	RewardRef string `json:"reward_ref" validate:"required"`
	Category  string `json:"category"   validate:"required"`
	Cost      uint64 `json:"cost"       validate:"gt=0"`
	URI       string `json:"uri"`
}

type rewardResponse struct {
	RewardRef     string `json:"reward_ref"`
	RestaurantRef string `json:"restaurant_ref"`
	Category      string `json:"category"`
	Cost          uint64 `json:"cost"`
	MintKey       string `json:"mint_key"`
	URI           string `json:"uri,omitempty"`
}

type airdropRequest struct {
	CustomerKey string `json:"customer_key" validate:"required"`
	// Message and Signature carry the signed grant, base64 encoded.
	Message   string `json:"message"   validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type redeemResponse struct {
	RewardRef    string `json:"reward_ref"`
	MintKey      string `json:"mint_key"`
	PointBalance uint64 `json:"point_balance"`
}

// Create handles POST /v1/restaurants/:ref/rewards.
func (h *RewardHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createRewardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	reward, err := h.service.Create(c.Request().Context(), actor, c.Param("ref"), ports.CreateRewardInput{
		RewardRef: req.RewardRef,
		Category:  req.Category,
		Cost:      req.Cost,
		URI:       req.URI,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRewardResponse(reward))
}

// Remove handles DELETE /v1/restaurants/:ref/rewards/:reward.
func (h *RewardHandler) Remove(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), actor, c.Param("ref"), c.Param("reward")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Redeem handles POST /v1/restaurants/:ref/rewards/:reward/redeem. The
// authenticated actor is the redeeming customer; points are spent before any
// token is minted.
func (h *RewardHandler) Redeem(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.Redeem(c.Request().Context(), actor, c.Param("ref"), c.Param("reward"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRedeemResponse(result))
}

// Airdrop handles POST /v1/restaurants/:ref/rewards/:reward/airdrop. The
// grant must be signed by the protocol's airdrop key and is single-use.
func (h *RewardHandler) Airdrop(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req airdropRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	message, err := base64.StdEncoding.DecodeString(req.Message)
	if err != nil {
		return domain.ErrInstructionsNotCorrect
	}
	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return domain.ErrInstructionsNotCorrect
	}

	result, err := h.service.Airdrop(c.Request().Context(), actor, c.Param("ref"), c.Param("reward"),
		req.CustomerKey, ports.AirdropGrant{Message: message, Signature: signature})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRedeemResponse(result))
}

func toRewardResponse(r *domain.RewardItem) rewardResponse {
	return rewardResponse{
		RewardRef:     r.RewardRef,
		RestaurantRef: r.RestaurantRef,
		Category:      r.Category,
		Cost:          r.RewardPoints,
		MintKey:       r.MintKey,
		URI:           r.URI,
	}
}

func toRedeemResponse(r *ports.RedeemResult) redeemResponse {
	return redeemResponse{
		RewardRef:    r.RewardRef,
		MintKey:      r.MintKey,
		PointBalance: r.PointBalance,
	}
}
