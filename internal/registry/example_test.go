package registry_test

import (
	"fmt"

	"poscan/internal/registry"
)

func ExampleNormalizeKey() {
	fmt.Println(registry.NormalizeKey("Acme Associates"))
	fmt.Println(registry.NormalizeKey("Acme & Associates, Ltd."))
	// Output:
	// acme_associates
	// acme_associates_ltd
}

func ExampleRegistry_FindByName() {
	reg, _ := registry.New()

	vendor, ok := reg.FindByName("Acne Associates")
	fmt.Println(ok, vendor.Key)
	// Output:
	// true acme_associates
}
