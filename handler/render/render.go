package render

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lending/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	JSONWithStatus(w, http.StatusOK, v)
}

// JSONWithStatus render json with status code
func JSONWithStatus(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// Error write error, lending errors keep their code
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)

	code, convErr := strconv.Atoi(twerr.Meta(codes.CustomCodeKey))
	if convErr != nil {
		code = codes.Get(twerr.Code())
	}

	resp := errorResponse{Code: code, Msg: twerr.Msg()}
	if twerr.Code() == twirp.Internal {
		resp.Msg = "internal error"
		if ResponseErrorMessageAsHint {
			resp.Hint = twerr.Msg()
		}
	}

	JSONWithStatus(w, twirp.ServerHTTPStatusFromErrorCode(twerr.Code()), resp)
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	if _, ok := err.(twirp.Error); !ok {
		err = twirp.InvalidArgumentError("request", err.Error())
	}

	Error(w, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, msg string) {
	Error(w, twirp.NotFoundError(msg))
}
