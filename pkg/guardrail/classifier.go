package guardrail

import (
	"context"

	"github.com/estatewise/sentinel/pkg/domain/security"
)

// Classifier scores a text payload into a risk level and a reason code.
// Implementations must be side-effect free, tolerate empty and arbitrarily
// long input, and return Safe for empty text. The pipeline depends only on
// this contract; scoring technique is swappable.
type Classifier interface {
	Classify(ctx context.Context, text string, direction security.Direction) (security.Assessment, error)
}
