package format_test

import (
	"bytes"
	"errors"
	"fmt"

	gferrors "github.com/vnykmshr/goshout/pkg/common/errors"
	"github.com/vnykmshr/goshout/pkg/format"
	"github.com/vnykmshr/goshout/pkg/streaming/writer"
)

func Example() {
	var server bytes.Buffer

	sink, err := format.Open("webm", writer.FromWriter(&server), format.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sink.Close()

	for _, chunk := range []string{"EBML", "Segment", "Cluster"} {
		if err := sink.Send([]byte(chunk)); err != nil {
			fmt.Println(format.CodeOf(err))
			return
		}
	}

	fmt.Println(server.String())
	// Output: EBMLSegmentCluster
}

func ExampleCodeOf() {
	dead := writer.TransportFunc(func(p []byte) (int, error) {
		return 0, errors.New("connection reset")
	})

	sink, _ := format.Open("matroska", dead, format.DefaultOptions())
	err := sink.Send([]byte("frame"))

	fmt.Println(format.CodeOf(err))
	fmt.Println(errors.Is(err, gferrors.ErrTransportFailure))
	// Output:
	// transport_failure
	// true
}
