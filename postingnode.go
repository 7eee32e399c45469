package blaze

// PostingNode is the term map's value type (Component B stores one of
// these per distinct term): the term's sorted posting list, its document
// frequency (DF — number of distinct documents the term appears in), and
// per-document term frequency (TF) used by the ranker.
//
// Internally postings are kept in a SkipList so that building (repeated
// Add calls during ingestion) stays O(log n) per insertion; Postings()
// flattens the list into the sorted []Posting slice the evaluator and
// codec operate on.
type PostingNode struct {
	list *SkipList
	DF   uint32
	TF   map[uint32]uint32
}

// NewPostingNode returns an empty PostingNode ready for Add calls.
func NewPostingNode() *PostingNode {
	return &PostingNode{
		list: NewSkipList(),
		TF:   make(map[uint32]uint32),
	}
}

// Add records one occurrence of this term at (docID, pos), bumping the
// term frequency for that document. It does not touch DF — DF is
// incremented exactly once per document by the builder once it has
// finished processing that document (see internal/build), matching the
// collect-then-commit shape of the original ingestion pipeline.
func (n *PostingNode) Add(docID, pos uint32) {
	n.list.Insert(Position{DocumentID: float64(docID), Offset: float64(pos)})
	n.TF[docID]++
}

// Postings returns every posting for this term, sorted by (DocumentID,
// Position).
func (n *PostingNode) Postings() []Posting {
	var out []Posting
	it := n.list.Iterator()
	if it.current != nil { // the iterator starts on the first element
		out = append(out, Posting{DocumentID: uint32(it.current.Key.DocumentID), Position: uint32(it.current.Key.Offset)})
	}
	for it.HasNext() {
		p := it.Next()
		out = append(out, Posting{DocumentID: uint32(p.DocumentID), Position: uint32(p.Offset)})
	}
	return out
}

// First, Last, Next and Previous are the positional iterator primitives:
// everything else in the evaluator is built out of repeated calls to
// these four, exactly as in the teacher's original InvertedIndex.
func (n *PostingNode) First() (Position, error) {
	if n.list.Head.Tower[0] == nil {
		return EOFDocument, ErrNoPostingList
	}
	return n.list.Head.Tower[0].Key, nil
}

func (n *PostingNode) Last() (Position, error) {
	return n.list.Last(), nil
}

func (n *PostingNode) Next(current Position) (Position, error) {
	if current.IsBeginning() {
		return n.First()
	}
	if current.IsEnd() {
		return EOFDocument, nil
	}
	next, _ := n.list.FindGreaterThan(current)
	return next, nil
}

func (n *PostingNode) Previous(current Position) (Position, error) {
	if current.IsEnd() {
		return n.Last()
	}
	if current.IsBeginning() {
		return BOFDocument, nil
	}
	prev, _ := n.list.FindLessThan(current)
	return prev, nil
}

// Serialize and Deserialize implement internal/termmap's Serializable
// contract so a PostingNode can be spilled to and restored from disk.
func (n *PostingNode) Serialize() []byte {
	enc := EncodePostingNode(n, VbyteEncoder{})
	buf := make([]byte, 0, len(enc.Postings)+16)
	buf = appendUint32(buf, enc.PostingsCount)
	buf = appendUint32(buf, enc.DF)
	buf = appendUint32(buf, uint32(len(enc.Postings)))
	buf = append(buf, enc.Postings...)
	buf = appendUint32(buf, uint32(len(enc.TF)))
	for doc, tf := range enc.TF {
		buf = appendUint32(buf, doc)
		buf = appendUint32(buf, tf)
	}
	return buf
}

func (n *PostingNode) Deserialize(buf []byte) {
	off := 0
	_ = readUint32At(buf, &off) // postings count, implied by decode
	df := readUint32At(buf, &off)
	postLen := readUint32At(buf, &off)
	postBuf := buf[off : off+int(postLen)]
	off += int(postLen)
	tfLen := readUint32At(buf, &off)
	tf := make(map[uint32]uint32, tfLen)
	for i := uint32(0); i < tfLen; i++ {
		doc := readUint32At(buf, &off)
		freq := readUint32At(buf, &off)
		tf[doc] = freq
	}

	decoded := DecodePostingNode(EncodedPostingNode{DF: df, Postings: postBuf, TF: tf}, VbyteEncoder{})
	*n = *decoded
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func readUint32At(buf []byte, off *int) uint32 {
	v := uint32(buf[*off]) | uint32(buf[*off+1])<<8 | uint32(buf[*off+2])<<16 | uint32(buf[*off+3])<<24
	*off += 4
	return v
}
