// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	reanaerrors "github.com/reanahub/reana-commons/pkg/common/error"
)

// Options configures the http clients of the REANA components.
type Options struct {
	// RetryMax is the number of retries of failed requests. 5xx responses and connection errors are retried.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

func (o *Options) setDefaults() {
	if o.RetryMax < 0 {
		o.RetryMax = 0
	}
	if o.RetryWaitMin == 0 {
		o.RetryWaitMin = 1 * time.Second
	}
	if o.RetryWaitMax == 0 {
		o.RetryWaitMax = 10 * time.Second
	}
	if o.Timeout == 0 {
		o.Timeout = 60 * time.Second
	}
}

// HTTPError is returned for responses outside of the 2xx range.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request %s returned status code %d with body %s", e.URL, e.StatusCode, e.Body)
}

// Message returns the "message" field of a JSON error body or the raw body.
func (e *HTTPError) Message() string {
	msg := struct {
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(e.Body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return string(e.Body)
}

// StatusCode returns the status code of a HTTPError or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// leveledLogger forwards the retryablehttp logs to logr.
type leveledLogger struct {
	log logr.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(nil, msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.V(3).Info(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.V(5).Info(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

type client struct {
	log      logr.Logger
	http     *retryablehttp.Client
	endpoint *url.URL
}

func newClient(log logr.Logger, endpoint string, opts Options) (*client, error) {
	if endpoint == "" {
		return nil, reanaerrors.NewMissingAPIClientConfigurationError("the endpoint of the REANA service is not configured")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse endpoint %s", endpoint)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, reanaerrors.NewMissingAPIClientConfigurationError(fmt.Sprintf("the endpoint %q is not a valid url", endpoint))
	}
	opts.setDefaults()

	c := retryablehttp.NewClient()
	c.Logger = leveledLogger{log: log}
	c.RetryMax = opts.RetryMax
	c.RetryWaitMin = opts.RetryWaitMin
	c.RetryWaitMax = opts.RetryWaitMax
	c.HTTPClient.Timeout = opts.Timeout
	// the last response is returned instead of a generic error so that server messages can be reported
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &client{
		log:      log,
		http:     c,
		endpoint: u,
	}, nil
}

func (c *client) url(rawPath string, query url.Values) string {
	u := *c.endpoint
	u.Path = path.Join("/", u.Path, rawPath)
	if len(query) != 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// request does a request and returns the body and header of a successful response.
func (c *client) request(ctx context.Context, method, rawPath string, query url.Values, payload interface{}) ([]byte, http.Header, error) {
	reqURL := c.url(rawPath, query)

	var body interface{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to marshal request body")
		}
		body = data
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Add("Accept", "application/json")
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	c.log.V(5).Info("request", "method", method, "url", reqURL)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to do request to %s", reqURL)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to read response body")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, nil, &HTTPError{URL: reqURL, StatusCode: res.StatusCode, Body: data}
	}
	return data, res.Header, nil
}

func (c *client) requestJSON(ctx context.Context, method, rawPath string, query url.Values, payload, into interface{}) error {
	data, _, err := c.request(ctx, method, rawPath, query, payload)
	if err != nil {
		return err
	}
	if into == nil {
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.Wrapf(err, "unable to decode response of %s", rawPath)
	}
	return nil
}
