package extract

import "context"

// NotFoundSentinel is the exact answer the model is instructed to give when
// no reading is visible. Adapters compare the response against it verbatim:
// matching it is a normal result, not an error.
const NotFoundSentinel = "Valor não encontrado"

// Prompt is the fixed instruction sent with every meter image.
const Prompt = `Esta imagem mostra o mostrador de um medidor de água ou gás.
Retorne somente os dígitos visíveis no mostrador, sem unidades, espaços ou
texto adicional. Caso não seja possível identificar um valor numérico,
responda exatamente: ` + NotFoundSentinel

// Reading is the outcome of one extraction. Value is the raw model text
// (the workflow parses it into an integer separately); Found is false when
// the model answered with NotFoundSentinel. ImageURL always references the
// externally hosted copy of the image, found or not.
type Reading struct {
	Value    string
	Found    bool
	ImageURL string
}

type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType, displayName string) (*Reading, error)
}
