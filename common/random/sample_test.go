package random

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func TestSample(t *testing.T) {
	values := map[int32]float32{
		0: 0.1,
		1: 0.1,
		2: 0.5,
		3: 0.3,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	hist := map[int32]int{}
	for i := 0; i < 10000; i++ {
		sampled, err := Sample(rng, values)
		if err != nil {
			t.Fatal(err)
		}
		v, ex := hist[sampled]
		if !ex {
			hist[sampled] = 1
		} else {
			hist[sampled] = v + 1
		}
	}
	fmt.Println(hist)
}
