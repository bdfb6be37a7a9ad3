package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"muanapay/internal/models/db_models"
	"muanapay/pkg/metrics"
	"muanapay/pkg/utils"
)

type EnrichmentMode string

const (
	EnrichmentOff      EnrichmentMode = "off"
	EnrichmentAugment  EnrichmentMode = "augment"
	EnrichmentClassify EnrichmentMode = "classify"
)

// AugmentedConfidence marks fields completed with model help in augment mode.
const AugmentedConfidence = 0.85

const augmentPrompt = `Tu extrais des champs depuis des SMS Mobile Money (français ou anglais).
Retourne un JSON strict avec les clés: payment_reference, amount_cents, currency, counterparty_number, provider.
Utilise null pour toute valeur absente.`

const classifyPrompt = `Tu analyses des SMS Mobile Money en français et en anglais. Détermine s'il s'agit d'une VRAIE TRANSACTION ou de marketing/information.

VRAIE TRANSACTION = SMS confirmant un mouvement d'argent effectué (envoi, réception, paiement, retrait, dépôt).
MARKETING/INFO = publicité, information générale, promotion, mise à jour de service.

Retourne un JSON strict avec:
- is_transaction: true/false (true uniquement pour une vraie transaction financière)
- payment_reference: ID/référence de la transaction (ou null)
- amount_cents: montant (ou null)
- currency: devise (FCFA, XOF, USD, ...)
- counterparty_number: numéro de l'expéditeur/destinataire (ou null)
- provider: opérateur (Orange Money, MTN, ...)
- confidence: 0.0-1.0

Exemples:
- "Orange Money c'est simple ! Transférez..." -> is_transaction: false
- "Transfert de 5000 FCFA du 77123456 ID: ABC123" -> is_transaction: true`

type EnrichedResult struct {
	Fields utils.ParsedSmsFields
	// Filtered is set only when a classifier explicitly answered is_transaction=false.
	Filtered bool
	Source   db_models.EnrichmentSource
}

// EnrichmentServiceInterface completes heuristic SMS fields with a language model.
// Implementations never fail: model problems degrade to the heuristic result.
type EnrichmentServiceInterface interface {
	Enrich(ctx context.Context, text string, heuristic utils.ParsedSmsFields) EnrichedResult
	Mode() EnrichmentMode
}

// NewEnrichmentService picks the strategy for mode. A nil client always yields the
// heuristic-only strategy, whatever the mode.
func NewEnrichmentService(mode EnrichmentMode, client utils.CompletionClientInterface, log *zap.Logger, recorder metrics.Recorder) (EnrichmentServiceInterface, error) {
	if client == nil || mode == EnrichmentOff {
		return heuristicOnly{}, nil
	}
	switch mode {
	case EnrichmentAugment:
		return &augmentingEnricher{client: client, log: log, metrics: recorder}, nil
	case EnrichmentClassify:
		return &classifyingEnricher{client: client, log: log, metrics: recorder}, nil
	default:
		return nil, fmt.Errorf("unknown enrichment mode %q", mode)
	}
}

type heuristicOnly struct{}

func (heuristicOnly) Mode() EnrichmentMode { return EnrichmentOff }

func (heuristicOnly) Enrich(_ context.Context, _ string, heuristic utils.ParsedSmsFields) EnrichedResult {
	return EnrichedResult{Fields: heuristic, Source: db_models.SourceHeuristic}
}

// augmentingEnricher only consults the model when the regexes missed the reference or
// the amount, and lets heuristic values win.
type augmentingEnricher struct {
	client  utils.CompletionClientInterface
	log     *zap.Logger
	metrics metrics.Recorder
}

func (a *augmentingEnricher) Mode() EnrichmentMode { return EnrichmentAugment }

func (a *augmentingEnricher) Enrich(ctx context.Context, text string, heuristic utils.ParsedSmsFields) EnrichedResult {
	unchanged := EnrichedResult{Fields: heuristic, Source: db_models.SourceHeuristic}

	if hasString(heuristic.PaymentReference) && hasAmount(heuristic.AmountCents) {
		a.metrics.Enrichment(string(EnrichmentAugment), "skipped")
		return unchanged
	}

	ai, err := requestExtraction(ctx, a.client, augmentPrompt, text)
	if err != nil {
		a.log.Warn("augment enrichment failed, keeping regex result", zap.Error(err))
		a.metrics.Enrichment(string(EnrichmentAugment), "error")
		return unchanged
	}

	merged := utils.ParsedSmsFields{
		PaymentReference:   firstString(heuristic.PaymentReference, ai.PaymentReference.ptr()),
		AmountCents:        firstAmount(heuristic.AmountCents, ai.AmountCents.ptr()),
		Currency:           firstNonEmpty(heuristic.Currency, string(ai.Currency), utils.DefaultSmsCurrency),
		CounterpartyNumber: firstString(heuristic.CounterpartyNumber, ai.CounterpartyNumber.ptr()),
		Provider:           ai.Provider.ptr(),
		ParsedConfidence:   AugmentedConfidence,
	}
	a.metrics.Enrichment(string(EnrichmentAugment), "augmented")
	return EnrichedResult{Fields: merged, Source: db_models.SourceAugmented}
}

// classifyingEnricher always asks the model whether the SMS is a real money movement.
// Only an explicit is_transaction=false filters; every failure stores the SMS.
type classifyingEnricher struct {
	client  utils.CompletionClientInterface
	log     *zap.Logger
	metrics metrics.Recorder
}

func (c *classifyingEnricher) Mode() EnrichmentMode { return EnrichmentClassify }

func (c *classifyingEnricher) Enrich(ctx context.Context, text string, heuristic utils.ParsedSmsFields) EnrichedResult {
	ai, err := requestExtraction(ctx, c.client, classifyPrompt, text)
	if err != nil {
		c.log.Warn("classification failed, falling back to regex parsing", zap.Error(err))
		c.metrics.Enrichment(string(EnrichmentClassify), "error")
		return EnrichedResult{Fields: heuristic, Source: db_models.SourceHeuristic}
	}

	if ai.IsTransaction == nil {
		c.metrics.Enrichment(string(EnrichmentClassify), "unclassified")
		return EnrichedResult{Fields: heuristic, Source: db_models.SourceHeuristic}
	}

	if !*ai.IsTransaction {
		c.log.Info("classifier flagged non-transaction sms", zap.String("message", truncate(text, 100)))
		c.metrics.Enrichment(string(EnrichmentClassify), "filtered")
		return EnrichedResult{Fields: heuristic, Filtered: true, Source: db_models.SourceClassified}
	}

	confidence := AugmentedConfidence
	if ai.Confidence != nil && float64(*ai.Confidence) > 0 {
		confidence = clamp01(float64(*ai.Confidence))
	}
	heuristicConfidence := heuristic.ParsedConfidence
	if heuristicConfidence == 0 {
		heuristicConfidence = 0.5
	}

	merged := utils.ParsedSmsFields{
		PaymentReference:   firstString(ai.PaymentReference.ptr(), heuristic.PaymentReference),
		AmountCents:        firstAmount(ai.AmountCents.ptr(), heuristic.AmountCents),
		Currency:           firstNonEmpty(string(ai.Currency), heuristic.Currency, utils.DefaultSmsCurrency),
		CounterpartyNumber: firstString(ai.CounterpartyNumber.ptr(), heuristic.CounterpartyNumber),
		Provider:           ai.Provider.ptr(),
		ParsedConfidence:   math.Max(confidence, heuristicConfidence),
	}
	c.metrics.Enrichment(string(EnrichmentClassify), "classified")
	return EnrichedResult{Fields: merged, Source: db_models.SourceClassified}
}

// modelExtraction is the JSON object both prompts ask for. Models are loose with
// types, so scalar fields accept numbers, strings or null.
type modelExtraction struct {
	IsTransaction      *bool        `json:"is_transaction"`
	PaymentReference   looseString  `json:"payment_reference"`
	AmountCents        looseAmount  `json:"amount_cents"`
	Currency           looseString  `json:"currency"`
	CounterpartyNumber looseString  `json:"counterparty_number"`
	Provider           looseString  `json:"provider"`
	Confidence         *looseNumber `json:"confidence"`
}

func requestExtraction(ctx context.Context, client utils.CompletionClientInterface, systemPrompt, text string) (*modelExtraction, error) {
	content, err := client.CompleteJSON(ctx, utils.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   "SMS: " + text,
	})
	if err != nil {
		return nil, err
	}

	var out modelExtraction
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode model json: %w", err)
	}
	return &out, nil
}

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(strings.TrimSpace(t))
	case float64:
		*s = looseString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = ""
	default:
		return fmt.Errorf("unexpected json type %T", v)
	}
	return nil
}

func (s looseString) ptr() *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

type looseAmount struct {
	value *int64
}

func (a *looseAmount) UnmarshalJSON(b []byte) error {
	var n looseNumber
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		a.value = nil
		return nil
	}
	v := int64(f)
	a.value = &v
	return nil
}

func (a looseAmount) ptr() *int64 { return a.value }

type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*n = looseNumber(math.NaN())
	case float64:
		*n = looseNumber(t)
	case string:
		cleaned := strings.NewReplacer(" ", "", ",", "").Replace(strings.TrimSpace(t))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			*n = looseNumber(math.NaN())
			return nil
		}
		*n = looseNumber(f)
	default:
		*n = looseNumber(math.NaN())
	}
	return nil
}

func hasString(v *string) bool { return v != nil && strings.TrimSpace(*v) != "" }

// hasAmount treats zero as missing; no real transfer is for 0.
func hasAmount(v *int64) bool { return v != nil && *v != 0 }

func firstString(values ...*string) *string {
	for _, v := range values {
		if hasString(v) {
			return v
		}
	}
	return nil
}

// firstAmount returns the first non-zero amount, else the last candidate.
func firstAmount(values ...*int64) *int64 {
	for _, v := range values {
		if hasAmount(v) {
			return v
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values[len(values)-1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
