package brownian_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBrownian(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Brownian Interval Suite")
}
