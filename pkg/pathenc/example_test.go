package pathenc_test

import (
	"fmt"

	"github.com/rickgorman/claudepath/pkg/pathenc"
)

func ExampleEncode() {
	fmt.Println(pathenc.Encode("/Users/foo/my-project"))
	fmt.Println(pathenc.Encode("/"))

	// Output:
	// -Users-foo-my-project
	// -
}
