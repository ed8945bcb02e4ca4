package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"Çağdaş Türkçe Yazı", "cagdas-turkce-yazi"},
		{"Ölçüm ve Şekil", "olcum-ve-sekil"},
		{"Kapı açık mı?", "kapi-acik-mi"},
		{"Déjà vu — encore", "deja-vu-encore"},
		{"C++ in 2024", "c-in-2024"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER_case_MIX", "upper-case-mix"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "input %q", tc.in)
	}
}
