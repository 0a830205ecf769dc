package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
	"github.com/zerotrustai/modelgate/pkg/logger"
)

// Constants for phrase class selection.
const (
	phraseClassDivisor = 10
)

// Phrase class cases; urgent and important phrases are deliberately
// rarer than neutral traffic, matching real ticket streams.
const (
	caseUrgent    = 0
	caseImportant = 1
	caseShort     = 2
)

// Phrase pools. Urgent phrases carry the strong keywords every
// strategy maps to high priority; important phrases carry the medium
// vocabulary; neutral phrases carry no signal at all.
var (
	urgentPhrases = []string{
		"esto es urgente, el sistema de pagos no responde",
		"fallo crítico en producción, nadie puede entrar",
		"emergencia: la base de datos principal se cayó",
		"incidente crítico reportado por tres clientes",
	}

	importantPhrases = []string{
		"es importante revisar el contrato antes del viernes",
		"importante: actualizar los certificados este mes",
		"hay que revisar la configuración del balanceador",
		"atención al rendimiento del endpoint de búsqueda",
	}

	neutralPhrases = []string{
		"consulta sobre el proceso de alta de usuarios nuevos",
		"duda general acerca de la documentación publicada",
		"solicitud de acceso al repositorio de plantillas",
		"pregunta sobre los horarios del soporte telefónico",
	}

	shortPhrases = []string{"hola", "ayuda", "duda", "test"}

	strategyPool = []string{"", "modelo_basico", "modelo_avanzado", "modelo_edge"}
)

// randomIndex returns a random index below n using crypto/rand.
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRequests creates the configured number of prediction requests
// with a weighted mix of phrase classes and strategies.
func generateRequests(ctx context.Context, config *Config, stats *Stats) []Request {
	logger.Get().Info(ctx, "generating prediction requests",
		logger.Int("numRequests", config.NumRequests))

	requests := make([]Request, config.NumRequests)
	for i := range requests {
		requests[i] = generateSingleRequest()
	}

	stats.RequestsGenerated = len(requests)
	logger.Get().Info(ctx, "generated requests successfully", logger.Int("count", len(requests)))
	return requests
}

// generateSingleRequest picks a phrase class, a phrase and a strategy.
func generateSingleRequest() Request {
	var input string
	switch randomIndex(phraseClassDivisor) {
	case caseUrgent:
		input = urgentPhrases[randomIndex(len(urgentPhrases))]
	case caseImportant:
		input = importantPhrases[randomIndex(len(importantPhrases))]
	case caseShort:
		input = shortPhrases[randomIndex(len(shortPhrases))]
	default:
		input = neutralPhrases[randomIndex(len(neutralPhrases))]
	}

	return Request{
		Input:    input,
		Strategy: strategyPool[randomIndex(len(strategyPool))],
		Metadata: map[string]any{
			"request_tag": uuid.New().String(),
			"source":      "loadgen",
		},
	}
}
