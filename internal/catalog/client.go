// Package catalog fetches raw image records from the EC2 image catalog. It
// is the engine's only data source: records come back region-scoped by the
// AWS configuration, fully merged across pages before normalization.
package catalog

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pkg/errors"

	"github.com/lucas-albers-lz4/amifind/pkg/ami"
	log "github.com/lucas-albers-lz4/amifind/pkg/log"
)

// familyFilter pairs a family's publishing account with the name patterns
// its images are listed under.
type familyFilter struct {
	owner    string
	patterns []string
}

// Publisher identities and name patterns per family. These mirror the
// conventions the pkg/ami matchers parse; the server-side filter just keeps
// the response size sane.
var familyFilters = map[ami.Family]familyFilter{
	ami.FamilyAmazonLinux: {
		owner:    "137112412989",
		patterns: []string{"al2023-ami-*", "amzn2-ami-hvm-*"},
	},
	ami.FamilyDebian: {
		owner:    "136693071363",
		patterns: []string{"debian-*"},
	},
	ami.FamilyUbuntu: {
		owner:    "099720109477",
		patterns: []string{"ubuntu/images/*"},
	},
	ami.FamilyWindows: {
		owner:    "801119661308",
		patterns: []string{"Windows_Server-*"},
	},
}

// Client queries the EC2 image catalog for one region.
type Client struct {
	api ec2.DescribeImagesAPIClient
}

// NewClient builds a Client from the ambient AWS configuration (environment,
// shared config files) scoped to the given region.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load AWS configuration")
	}
	return &Client{api: ec2.NewFromConfig(cfg)}, nil
}

// NewClientWithAPI builds a Client on an existing EC2 API, primarily for
// tests.
func NewClientWithAPI(api ec2.DescribeImagesAPIClient) *Client {
	return &Client{api: api}
}

// Images returns every available catalog record for the family, merged
// across result pages. Errors from the AWS SDK are propagated unmodified
// apart from context; the engine does not retry.
func (c *Client) Images(ctx context.Context, family ami.Family) ([]ami.RawImage, error) {
	filter, ok := familyFilters[family]
	if !ok {
		return nil, errors.Wrapf(ami.ErrUnknownFamily, "%q", family)
	}

	input := &ec2.DescribeImagesInput{
		Owners: []string{filter.owner},
		Filters: []ec2types.Filter{
			{Name: aws.String("name"), Values: filter.patterns},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	}

	var raws []ami.RawImage
	paginator := ec2.NewDescribeImagesPaginator(c.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "describe images for %s", family)
		}
		for _, img := range page.Images {
			raws = append(raws, ami.RawImage{
				ID:           aws.ToString(img.ImageId),
				Name:         aws.ToString(img.Name),
				OwnerID:      aws.ToString(img.OwnerId),
				Architecture: string(img.Architecture),
				CreationDate: aws.ToString(img.CreationDate),
				Description:  aws.ToString(img.Description),
			})
		}
	}

	log.Debug("Fetched catalog records", "family", family, "count", len(raws))
	return raws, nil
}
