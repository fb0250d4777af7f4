package aggregate

import (
	"sort"

	"creditScope/internal/model"
)

// WalletRecords is one wallet's records in chronological order.
type WalletRecords struct {
	Wallet  string
	Records []model.DecodedTransaction
}

// GroupByWallet partitions records by wallet and stable-sorts each partition
// by timestamp, so equal timestamps keep their input order. Partitions are
// returned in order of each wallet's first appearance. The input is not modified.
func GroupByWallet(records []model.DecodedTransaction) []WalletRecords {
	index := make(map[string]int)
	groups := make([]WalletRecords, 0)
	for _, record := range records {
		i, ok := index[record.Wallet]
		if !ok {
			i = len(groups)
			index[record.Wallet] = i
			groups = append(groups, WalletRecords{Wallet: record.Wallet})
		}
		groups[i].Records = append(groups[i].Records, record)
	}

	for i := range groups {
		recs := groups[i].Records
		sort.SliceStable(recs, func(a, b int) bool {
			return recs[a].Timestamp < recs[b].Timestamp
		})
	}
	return groups
}
