package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"httpfromtcp/internal/headers"
	"httpfromtcp/internal/method"
	"httpfromtcp/internal/request"
	"httpfromtcp/internal/response"
	"httpfromtcp/internal/route"
	"httpfromtcp/internal/server"
	"httpfromtcp/internal/streambuf"
)

const defaultPort = 42069

func main() {
	logger := logrus.New()
	if os.Getenv("HTTP_DBG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	port := defaultPort
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	srv := server.New("", port, server.WithMaxBodyBytes(10<<20))

	srv.SetFallbackHandler(func(req *request.Request) *response.Response {
		return htmlPage(404, "Not Found", "Your request honestly kinda sucked.")
	})

	getMethod := method.GET
	srv.AddPathHandler(&getMethod, "/yourproblem", func(unit *request.UnitRequest, params route.Params) server.Handler {
		return func(req *request.Request) *response.Response {
			return htmlPage(400, "Bad Request", "Your request honestly kinda sucked.")
		}
	}, nil)
	srv.AddPathHandler(&getMethod, "/myproblem", func(unit *request.UnitRequest, params route.Params) server.Handler {
		return func(req *request.Request) *response.Response {
			return htmlPage(500, "Internal Server Error", "Okay, you know what? This one is on me.")
		}
	}, nil)
	srv.AddPathHandler(&getMethod, "/", func(unit *request.UnitRequest, params route.Params) server.Handler {
		return func(req *request.Request) *response.Response {
			return htmlPage(200, "OK", "Your request was an absolute banger.")
		}
	}, nil)
	srv.AddPathHandler(&getMethod, "/user/%s/file/%d", func(unit *request.UnitRequest, params route.Params) server.Handler {
		return func(req *request.Request) *response.Response {
			return htmlPage(200, "OK", "Hello, "+params.At(0)+", file #"+params.At(1))
		}
	}, nil)

	// HEAD requests carry no body on the wire regardless of any
	// Content-Length the client sends; drop it rather than reading past
	// the request that follows.
	srv.AddDecodeRequestHook(func(unit *request.UnitRequest) (*request.UnitRequest, server.StreamTransformer, bool) {
		if unit.Method() != method.HEAD {
			return nil, nil, false
		}
		return nil, func(streambuf.Stream) streambuf.Stream {
			return streambuf.NewBytesStream(nil)
		}, true
	})

	srv.AddEncodeResponseHook(func(req *request.Request, resp *response.Response) *response.Response {
		resp.Headers.Set("Server", "httpfromtcp")
		return nil
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.WithError(err).Fatal("server exited")
		}
	}()
	logger.Infof("httpserver listening on port %d", port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	srv.Stop()
	logger.Info("server gracefully stopped")
}

func htmlPage(status int, title, message string) *response.Response {
	h := headers.New()
	h.Set("Content-Type", "text/html")
	body := "<html>\n  <head>\n    <title>" + title + "</title>\n  </head>\n  <body>\n    <h1>" +
		title + "</h1>\n    <p>" + message + "</p>\n  </body>\n</html>\n"
	return response.MakeRaw(status, h, []byte(body))
}
