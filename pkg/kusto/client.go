package kusto

import (
	"context"

	azkusto "github.com/Azure/azure-kusto-go/kusto"
	kerrors "github.com/Azure/azure-kusto-go/kusto/data/errors"
	"github.com/Azure/azure-kusto-go/kusto/data/table"
	"github.com/Azure/azure-kusto-go/kusto/kql"
	"github.com/pkg/errors"
)

type (
	// Executor runs queries and management commands against one cluster.
	Executor interface {
		Query(ctx context.Context, database, text string) (*Result, error)
		Mgmt(ctx context.Context, database, text string) (*Result, error)
	}

	// Client is an Executor backed by the Azure Data Explorer SDK.
	Client struct {
		endpoint string
		client   *azkusto.Client
	}
)

// NewClient connects to the cluster at endpoint using the default Azure
// credential chain (environment, workload identity, managed identity, Azure
// CLI).
//
// Example:
//
//	client, err := kusto.NewClient("https://mycluster.westeurope.kusto.windows.net")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	res, err := client.Mgmt(ctx, "telemetry", ".show tables")
func NewClient(endpoint string) (*Client, error) {
	kcsb := azkusto.NewConnectionStringBuilder(endpoint).WithDefaultAzureCredential()

	client, err := azkusto.New(kcsb)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", endpoint)
	}

	return &Client{endpoint: endpoint, client: client}, nil
}

// Endpoint returns the cluster URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Query runs a KQL query.
func (c *Client) Query(ctx context.Context, database, text string) (*Result, error) {
	iter, err := c.client.Query(ctx, database, kql.New("").AddUnsafe(text))
	if err != nil {
		return nil, errors.Wrapf(err, "query failed on %s", c.endpoint)
	}

	return collect(iter)
}

// Mgmt runs a management (control) command.
func (c *Client) Mgmt(ctx context.Context, database, text string) (*Result, error) {
	iter, err := c.client.Mgmt(ctx, database, kql.New("").AddUnsafe(text))
	if err != nil {
		return nil, errors.Wrapf(err, "command failed on %s", c.endpoint)
	}

	return collect(iter)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func collect(iter *azkusto.RowIterator) (*Result, error) {
	defer iter.Stop()

	res := &Result{}
	err := iter.DoOnRowOrError(func(row *table.Row, e *kerrors.Error) error {
		if e != nil {
			return e
		}
		if res.Columns == nil {
			res.Columns = row.ColumnNames()
		}

		values := make([]string, len(row.Values))
		for i, v := range row.Values {
			values[i] = v.String()
		}
		res.Values = append(res.Values, values)
		return nil
	})

	return res, errors.Wrap(err, "failed reading results")
}
