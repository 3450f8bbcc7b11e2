package transaction

import "context"

// Transactor executa fn dentro de uma transação de banco. Repositórios
// chamados com o ctx recebido participam da mesma transação; qualquer erro
// devolvido por fn desfaz todas as escritas.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
