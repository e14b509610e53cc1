package logger

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var cwClient *cloudwatch.Client
var cwNamespace = "FundingDesk"

// InitCloudWatch initialises the CloudWatch client using the provided region
// and namespace. If region is empty it falls back to the AWS_REGION
// environment variable. When the client cannot be created the function logs a
// warning and metrics publishing remains disabled.
func InitCloudWatch(region, namespace string) {
	log := GetLogger().WithComponent("cloudwatch")

	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	ctx := context.Background()
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("failed to load AWS configuration; CloudWatch metrics disabled")
		return
	}

	cwClient = cloudwatch.NewFromConfig(cfg)

	if namespace != "" {
		cwNamespace = namespace
	}

	log.WithFields(Fields{"region": region, "namespace": cwNamespace}).Info("initialized CloudWatch client")
}

// publishDuration sends one operation duration datum to CloudWatch when the
// client has been initialised; otherwise it is a no-op.
func publishDuration(component, operation string, duration time.Duration) {
	if cwClient == nil {
		return
	}

	log := GetLogger().WithComponent("cloudwatch")

	data := []cwtypes.MetricDatum{{
		MetricName: aws.String("OperationDuration"),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("component"), Value: aws.String(component)},
			{Name: aws.String("operation"), Value: aws.String(operation)},
		},
		Unit:  cwtypes.StandardUnitMilliseconds,
		Value: aws.Float64(float64(duration.Nanoseconds()) / 1e6),
	}}

	_, err := cwClient.PutMetricData(context.Background(), &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(cwNamespace),
		MetricData: data,
	})
	if err != nil {
		log.WithError(err).Debug("failed to publish CloudWatch metrics")
	}
}
