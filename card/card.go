// Package card implements the hand evaluator contract: the Card/HandID
// bijection, 5-card hand ranking, and the best-discard win-probability
// computation consumed by the solver's terminal value kernel.
package card

// Card is a single playing card, 0-51. Rank is the value 0 (two) .. 12
// (ace); suit is 0-3. Adapted from nolimitholdem.Card (constants.go),
// switching the encoding from suit*13+rank to rank*4+suit per spec §3.
type Card int32

func NewCard(rank, suit int) Card {
	return Card(rank*4 + suit)
}

func (c Card) Rank() int { return int(c) / 4 }
func (c Card) Suit() int { return int(c) % 4 }

const NumCards = 52
const NumPreDiscardCards = 3
const NumPostDiscardCards = 2

// NumHands is C(52,3) = 22,100, the number of distinct 3-card pre-discard
// holdings.
const NumHands = 52 * 51 * 50 / 6

// HandID indexes a 3-card pre-discard holding, 0..NumHands-1.
type HandID int32

// binomial returns C(n, k), 0 if n < k.
func binomial(n, k int) int64 {
	if n < k || k < 0 {
		return 0
	}
	if k == 0 {
		return 1
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// HandToCards unranks hand into its sorted 3-card triple using the
// combinatorial number system, so that HandToCards(0) == [0,1,2] and
// consecutive hand ids enumerate triples in colexicographic order (by c2,
// then c1, then c0: [0,1,2], [0,1,3], [0,2,3], [1,2,3], [0,1,4], ...), not
// in lexicographic (c0,c1,c2) order. original_source's Game::hand_to_cards walks a similar
// "subtract combinations of the remaining slots" loop but leaves its
// final slot unconditional on the remainder, which collapses distinct
// hand ids onto the same triple (see DESIGN.md); this implementation
// applies the same subtract-and-descend idea to all three slots so the
// mapping is an actual bijection, matching testable property #1.
func HandToCards(hand HandID) [3]Card {
	remaining := int64(hand)
	var cards [3]Card
	c2 := 2
	for binomial(c2+1, 3) <= remaining {
		c2++
	}
	remaining -= binomial(c2, 3)
	c1 := 1
	for binomial(c1+1, 2) <= remaining {
		c1++
	}
	remaining -= binomial(c1, 2)
	c0 := int(remaining)
	cards[0] = Card(c0)
	cards[1] = Card(c1)
	cards[2] = Card(c2)
	return cards
}

// CardsToHandID is the forward combinatorial ranking, the exact inverse
// of HandToCards. cards must be strictly increasing.
func CardsToHandID(cards [3]Card) HandID {
	c0, c1, c2 := int(cards[0]), int(cards[1]), int(cards[2])
	id := binomial(c2, 3) + binomial(c1, 2) + binomial(c0, 1)
	return HandID(id)
}

// PostDiscardCards drops the hole card at discardIdx (0, 1, or 2).
func PostDiscardCards(hand HandID, discardIdx int) [2]Card {
	pre := HandToCards(hand)
	var post [2]Card
	j := 0
	for i := 0; i < 3; i++ {
		if i != discardIdx {
			post[j] = pre[i]
			j++
		}
	}
	return post
}
