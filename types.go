package partnersdk

import (
	"github.com/patrickwarner/partnersdk/internal/botcheck"
	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/logic/rtps"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
)

type (
	Config           = config.Config
	MetricsRegistry  = observability.MetricsRegistry
	BotCheckProvider = botcheck.Provider
	BotCheckFunc     = botcheck.ProviderFunc
	RTPSState        = rtps.State
)

// Host-supplied context.
type (
	Environment             = models.Environment
	MerchantConfiguration   = models.MerchantConfiguration
	PlacementsConfiguration = models.PlacementsConfiguration
	PlacementData           = models.PlacementData
	RTPSData                = models.RTPSData
	Buyer                   = models.Buyer
	Address                 = models.Address
	Order                   = models.Order
	MockOption              = models.MockOption
)

// Rendered models.
type (
	TextPlacementModel   = models.TextPlacementModel
	PopupPlacementModel  = models.PopupPlacementModel
	PlacementOverlayType = models.PlacementOverlayType
)

const (
	EnvironmentStage = models.EnvironmentStage
	EnvironmentProd  = models.EnvironmentProd
	EnvironmentUAT   = models.EnvironmentUAT

	OverlayEmbedded      = models.OverlayEmbedded
	OverlaySingleProduct = models.OverlaySingleProduct
)

// Events and the handles that come with them.
type (
	Event                 = events.Event
	EventKind             = events.Kind
	RenderText            = events.RenderText
	RenderPopup           = events.RenderPopup
	RenderChallenge       = events.RenderChallenge
	TextClicked           = events.TextClicked
	ActionButtonTapped    = events.ActionButtonTapped
	ScreenName            = events.ScreenName
	WebViewSuccess        = events.WebViewSuccess
	WebViewFailure        = events.WebViewFailure
	PopupClosed           = events.PopupClosed
	SdkError              = events.SdkError
	CardApplicationStatus = events.CardApplicationStatus
	EventLog              = events.EventLog

	TextHandle      = events.TextHandle
	PopupHandle     = events.PopupHandle
	ChallengeHandle = events.ChallengeHandle
)

// Errors carried by SdkError events.
var (
	ErrRTPSInProgress         = logic.ErrRTPSInProgress
	ErrBrandConfigUnavailable = logic.ErrBrandConfigUnavailable
	ErrPrescreenResult        = logic.ErrPrescreenResult
	ErrChallengeDismissed     = logic.ErrChallengeDismissed
	ErrChallengeRepeated      = logic.ErrChallengeRepeated
	ErrBotCheckFailed         = botcheck.ErrBotCheckFailed
)
