package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/crudapi/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAck(t *testing.T) {
	convey.Convey("Given acknowledgments", t, func() {
		convey.Convey("When encoding a GET ack", func() {
			raw, err := json.Marshal(model.NewAck(model.OperationGet))

			convey.Convey("Then keys should appear in wire order without data", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldEqual,
					`{"operation":"GET","message":"GET operation performed successfully","status":"success"}`)
			})
		})

		convey.Convey("When encoding a POST ack without payload", func() {
			raw, err := json.Marshal(model.NewItemAck(model.OperationPost, nil))

			convey.Convey("Then data should be null", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldEqual,
					`{"operation":"POST","message":"POST operation performed successfully","data":null,"status":"success"}`)
			})
		})

		convey.Convey("When encoding a PUT ack with payload", func() {
			raw, err := json.Marshal(model.NewItemAck(model.OperationPut, model.NewItemPayload("x", "y")))

			convey.Convey("Then data should echo the payload", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(raw), convey.ShouldEqual,
					`{"operation":"PUT","message":"PUT operation performed successfully","data":{"name":"x","description":"y"},"status":"success"}`)
			})
		})

		convey.Convey("When encoding the root status", func() {
			raw, _ := json.Marshal(model.RootStatus{Message: model.RootMessage})

			convey.Convey("Then it should carry the greeting", func() {
				convey.So(string(raw), convey.ShouldEqual, `{"message":"FastAPI CRUD API is running"}`)
			})
		})
	})
}
