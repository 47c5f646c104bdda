package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Stop requests the daemon to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Pairtrack.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Pairtrack.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardList returns board pairs matching the request filters.
func (c *Client) BoardList(req BoardListRequest) (*BoardListResponse, error) {
	var resp BoardListResponse
	if err := c.client.Call("Pairtrack.BoardList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardDescribe returns details for a single pair.
func (c *Client) BoardDescribe(pairNumber int) (*BoardDescribeResponse, error) {
	var resp BoardDescribeResponse
	req := BoardDescribeRequest{PairNumber: pairNumber}
	if err := c.client.Call("Pairtrack.BoardDescribe", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardMove moves a pair to a new stage.
func (c *Client) BoardMove(req BoardMoveRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.BoardMove", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardAssign sets or clears a pair's assignee.
func (c *Client) BoardAssign(req BoardAssignRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.BoardAssign", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardEdit updates a text field, checklist entry, or upload flag.
func (c *Client) BoardEdit(req BoardEditRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.BoardEdit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardPatch applies a partial field update by row id.
func (c *Client) BoardPatch(req BoardPatchRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.BoardPatch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Approve force-completes a pair and delivers its assets.
func (c *Client) Approve(req ApproveRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.Approve", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reshoot sends a pair back for another filming round.
func (c *Client) Reshoot(req ReshootRequest) (*PairResponse, error) {
	var resp PairResponse
	if err := c.client.Call("Pairtrack.Reshoot", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deliver copies a pair's assets to the client location.
func (c *Client) Deliver(pairNumber int) (*DeliverResponse, error) {
	var resp DeliverResponse
	req := DeliverRequest{PairNumber: pairNumber}
	if err := c.client.Call("Pairtrack.Deliver", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncDescription updates and mirrors a pair's description.
func (c *Client) SyncDescription(pairNumber int, description string) (*PairResponse, error) {
	var resp PairResponse
	req := SyncDescriptionRequest{PairNumber: pairNumber, Description: description}
	if err := c.client.Call("Pairtrack.SyncDescription", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns audited stage transitions for a pair.
func (c *Client) History(pairNumber int) (*HistoryResponse, error) {
	var resp HistoryResponse
	req := HistoryRequest{PairNumber: pairNumber}
	if err := c.client.Call("Pairtrack.History", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Pairtrack.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Pairtrack.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
