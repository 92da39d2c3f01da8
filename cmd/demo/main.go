// Command demo plays the host application: it opens a Session against the
// partner services (normally cmd/mockserver), registers a placement, taps
// through its overlay and runs a silent pre-screen, printing every event.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk"
	"github.com/patrickwarner/partnersdk/internal/observability"
)

var (
	baseURL   string
	brandID   string
	mock      string
	challenge bool
	verbose   bool
)

func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:8787", "partner service base URL")
	flag.StringVar(&brandID, "brand", "demo-brand", "integration key")
	flag.StringVar(&mock, "mock", "success", "pre-screen mock response")
	flag.BoolVar(&challenge, "complete-challenge", true, "complete security challenges instead of dismissing them")
	flag.BoolVar(&verbose, "v", false, "mirror request logs as events")
	flag.Parse()

	cfg := partnersdk.LoadConfig()
	logger, err := observability.InitLoggerWithService(cfg.ServiceName + "-demo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg partnersdk.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Environment = partnersdk.EnvironmentStage
	cfg.BrandBaseURL = baseURL
	cfg.RTPSBaseURL = baseURL
	if cfg.BotCheckTokenURL == "" {
		cfg.BotCheckTokenURL = baseURL + "/botcheck/token"
	}
	cfg.EnableLog = verbose

	session, err := partnersdk.Setup(ctx, partnersdk.Options{
		Config:         &cfg,
		IntegrationKey: brandID,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	mc := partnersdk.MerchantConfiguration{
		Env: partnersdk.EnvironmentStage,
		Buyer: &partnersdk.Buyer{
			GivenName:  "Carol",
			FamilyName: "Jones",
			BillingAddress: &partnersdk.Address{
				Address1:   "3075 Loyalty Cir",
				Locality:   "Columbus",
				Region:     "OH",
				PostalCode: "43219",
			},
		},
	}
	rtpsData := &partnersdk.RTPSData{
		ScreenName:   "checkout",
		LocationType: "checkout",
		MockResponse: partnersdk.MockOption(mock),
	}

	session.RegisterPlacements(mc, partnersdk.PlacementsConfiguration{
		PlacementData: &partnersdk.PlacementData{PlacementID: "demo-text"},
	}, false)

	rtpsStarted := false
	idle := time.NewTimer(5 * time.Second)
	defer idle.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-idle.C:
			fmt.Println("no more events")
			return nil
		case e, ok := <-session.Events():
			if !ok {
				return nil
			}
			idle.Reset(5 * time.Second)
			printEvent(e)

			switch ev := e.(type) {
			case partnersdk.RenderText:
				ev.Placement.Tap(ctx)
			case partnersdk.RenderPopup:
				if ev.OverlayType == partnersdk.OverlaySingleProduct {
					ev.Popup.TapActionButton(ctx)
					continue
				}
				ev.Popup.ReportScreenName("offer")
				ev.Popup.Close()
				if !rtpsStarted {
					rtpsStarted = true
					session.SilentRTPSRequest(mc, partnersdk.PlacementsConfiguration{RTPSData: rtpsData})
				} else if rtpsData.PrescreenID != nil {
					fmt.Printf("prescreen id stored: %d\n", *rtpsData.PrescreenID)
				}
			case partnersdk.RenderChallenge:
				if challenge {
					ev.Challenge.Complete()
				} else {
					ev.Challenge.Dismiss()
				}
			case partnersdk.SdkError:
				if !rtpsStarted {
					rtpsStarted = true
					session.SilentRTPSRequest(mc, partnersdk.PlacementsConfiguration{RTPSData: rtpsData})
				}
			}
		}
	}
}

func printEvent(e partnersdk.Event) {
	switch ev := e.(type) {
	case partnersdk.RenderText:
		fmt.Printf("%-20s %q action=%s\n", ev.Kind(), ev.Model.ContentText, ev.Model.ActionType)
	case partnersdk.RenderPopup:
		fmt.Printf("%-20s %s title=%q url=%s\n", ev.Kind(), ev.OverlayType, ev.Model.OverlayTitle, ev.Model.WebViewURL)
	case partnersdk.RenderChallenge:
		fmt.Printf("%-20s base=%s\n", ev.Kind(), ev.BaseURL)
	case partnersdk.SdkError:
		fmt.Printf("%-20s %v\n", ev.Kind(), ev.Err)
	case partnersdk.EventLog:
		fmt.Printf("%-20s %s %v\n", ev.Kind(), ev.Message, ev.Fields)
	default:
		fmt.Printf("%-20s\n", e.Kind())
	}
}
