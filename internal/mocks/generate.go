package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/group --output domain/group --outpkg groupmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TeamBalancer --dir ../domain/match --output domain/match --outpkg matchmock --filename team_balancer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TransactionRepository --dir ../domain/finance --output domain/finance --outpkg financemock --filename transaction_repository_mock.go
