package securestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/folio-org/edge-common-sub000/internal/config"
	"github.com/folio-org/edge-common-sub000/internal/observability"
)

// ParamStore resolves credentials from AWS Systems Manager Parameter
// Store. The parameter is named by the underscore-joined triple and read
// with decryption.
type ParamStore struct {
	client ssmAPI
	logger observability.Logger
}

// ssmAPI is the slice of the SSM client the store needs.
type ssmAPI interface {
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
}

// NewParamStore creates an SSM-backed store. The AWS credential chain is
// resolved at construction.
func NewParamStore(cfg *config.AWSStoreConfig, logger observability.Logger) (*ParamStore, error) {
	if cfg == nil || cfg.Region == "" {
		return nil, config.NewConfigError("secureStore.aws.region", "aws region is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, config.NewConfigErrorWithCause("secureStore.aws", "failed to load aws configuration", err)
	}

	client := ssm.NewFromConfig(awsCfg, func(o *ssm.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("aws parameter store initialized",
		observability.String("region", cfg.Region))

	return &ParamStore{client: client, logger: logger}, nil
}

// Get reads the decrypted parameter named clientID_tenant_username. A
// missing parameter is a not-found; every other SSM failure propagates
// as-is.
func (s *ParamStore) Get(ctx context.Context, clientID, tenant, username string) (string, error) {
	start := time.Now()
	name := strings.Join([]string{clientID, tenant, username}, "_")

	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			recordOperation("aws_ssm", start, ErrSecretNotFound)
			return "", ErrSecretNotFound
		}
		recordOperation("aws_ssm", start, err)
		return "", err
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		recordOperation("aws_ssm", start, ErrSecretNotFound)
		return "", ErrSecretNotFound
	}

	recordOperation("aws_ssm", start, nil)
	return aws.ToString(out.Parameter.Value), nil
}

// Ensure ParamStore implements Store.
var _ Store = (*ParamStore)(nil)
