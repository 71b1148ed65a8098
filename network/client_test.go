package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dashreel/dashreel/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Requests carry the application user agent", t, func() {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		resp, err := Client.Get(server.URL)
		So(err, ShouldBeNil)
		So(resp.Body.Close(), ShouldBeNil)
		So(got, ShouldEqual, constant.UserAgent)
	})
}
